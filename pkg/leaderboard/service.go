package leaderboard

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Source tells where the entries of a Result came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

// Result is the outcome of a leaderboard call. Err carries the remote
// failure, if any; Entries then come from the fallback store and Source says
// so. Validation failures have no entries and SourceNone.
type Result struct {
	Entries []Entry
	Source  Source
	Err     error
}

// OK reports whether the call succeeded without any failure.
func (r Result) OK() bool {
	return r.Err == nil
}

// Service submits and reads scores from the remote service, using the
// fallback store when the service is unconfigured or unreachable.
type Service struct {
	remote   *RemoteClient
	fallback *FallbackStore
	timeout  time.Duration
	log      logrus.FieldLogger
}

// NewService builds a service. remote may be nil, in which case only the
// fallback store is used. A nil log discards output.
func NewService(remote *RemoteClient, fallback *FallbackStore, timeout time.Duration, log logrus.FieldLogger) *Service {
	if fallback == nil {
		fallback = NewFallbackStore(0)
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Service{
		remote:   remote,
		fallback: fallback,
		timeout:  timeout,
		log:      log.WithField("component", "leaderboard"),
	}
}

// Configured reports whether a remote service is set up.
func (s *Service) Configured() bool {
	return s.remote != nil
}

// Submit records a final score. The result holds the stored entry.
func (s *Service) Submit(ctx context.Context, playerName string, score int) Result {
	entry, err := NewEntry(playerName, score)
	if err != nil {
		return Result{Source: SourceNone, Err: err}
	}

	if s.remote != nil {
		rctx, cancel := requestTimeout(ctx, s.timeout)
		stored, err := s.remote.Submit(rctx, entry.PlayerName, entry.Score)
		cancel()
		if err == nil {
			return Result{Entries: []Entry{stored}, Source: SourceRemote}
		}
		s.log.WithError(err).WithFields(logrus.Fields{
			"player": entry.PlayerName,
			"score":  entry.Score,
		}).Warn("Submitting score failed, keeping it locally")
		return Result{Entries: []Entry{s.fallback.Add(entry)}, Source: SourceFallback, Err: err}
	}

	return Result{Entries: []Entry{s.fallback.Add(entry)}, Source: SourceFallback}
}

// Top returns up to limit entries, best first.
func (s *Service) Top(ctx context.Context, limit int) Result {
	limit = ClampLimit(limit)

	if s.remote != nil {
		rctx, cancel := requestTimeout(ctx, s.timeout)
		entries, err := s.remote.Top(rctx, limit)
		cancel()
		if err == nil {
			if len(entries) > limit {
				entries = entries[:limit]
			}
			return Result{Entries: entries, Source: SourceRemote}
		}
		s.log.WithError(err).Warn("Fetching leaderboard failed, using local scores")
		return Result{Entries: s.fallback.Top(limit), Source: SourceFallback, Err: err}
	}

	return Result{Entries: s.fallback.Top(limit), Source: SourceFallback}
}
