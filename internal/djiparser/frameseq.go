package djiparser

import (
	"djilog/internal/framer"
	"djilog/internal/frames"
)

// FrameSeq is the pull-based iterator over a log's normalized frame
// timeline, built on top of a RecordSeq and a frames.Normalizer.
type FrameSeq struct {
	recs *RecordSeq
	norm *frames.Normalizer
	done bool
}

func newFrameSeq(recs *RecordSeq) *FrameSeq {
	return &FrameSeq{recs: recs, norm: frames.New()}
}

// Next pulls records from the underlying sequence until one of them
// closes out a frame, and returns it. It returns (nil, nil) at clean end
// of stream, after flushing any still-open frame.
func (s *FrameSeq) Next() (*frames.Frame, error) {
	if s.done {
		return nil, nil
	}
	for {
		rec, err := s.recs.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			s.done = true
			if f, ok := s.norm.Flush(); ok {
				return f, nil
			}
			return nil, nil
		}
		if f, ok := s.norm.Feed(rec); ok {
			return f, nil
		}
	}
}

// Diagnostics proxies the underlying RecordSeq's diagnostics.
func (s *FrameSeq) Diagnostics() []framer.Diagnostic {
	return s.recs.Diagnostics()
}

// EndSeen proxies the underlying RecordSeq's End-record observation.
func (s *FrameSeq) EndSeen() bool {
	return s.recs.EndSeen()
}
