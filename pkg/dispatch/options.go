package dispatch

import "log/slog"

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder sets where delivery outcomes are reported.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithTemplates replaces the built-in mail template catalog.
func WithTemplates(r Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.templates = r
		}
	}
}
