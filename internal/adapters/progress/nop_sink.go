package progress

import (
	"context"

	"github.com/inheritx/ixdeploy/internal/usecase"
)

// NopSink is a no-op implementation of ProgressSink, used with --json
type NopSink struct{}

// NewNopSink creates a new no-op progress sink
func NewNopSink() *NopSink {
	return &NopSink{}
}

func (n *NopSink) OnProgress(context.Context, usecase.ProgressEvent) {}
func (n *NopSink) Info(string)                                    {}
func (n *NopSink) Success(string)                                 {}
func (n *NopSink) Warn(string)                                    {}
func (n *NopSink) Error(string)                                   {}

// Ensure NopSink implements ProgressSink
var _ usecase.ProgressSink = (*NopSink)(nil)
