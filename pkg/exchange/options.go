package exchange

import (
	"time"

	"koinrest/pkg/core"
)

type Option func(*Options)

// Options collects the optional paging and filter parameters shared by list endpoints.
type Options struct {
	Limit     int
	Page      int
	StartTime time.Time
	EndTime   time.Time
	Extra     core.Params
}

func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = limit
	}
}

func WithPage(page int) Option {
	return func(o *Options) {
		o.Page = page
	}
}

func WithTimeRange(start, end time.Time) Option {
	return func(o *Options) {
		o.StartTime = start
		o.EndTime = end
	}
}

// WithParam adds a raw query parameter for fields without a dedicated option.
func WithParam(key string, value any) Option {
	return func(o *Options) {
		if o.Extra == nil {
			o.Extra = make(core.Params)
		}
		o.Extra[key] = value
	}
}

func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Params merges the options into params, adding limit, page, start and end
// (epoch milliseconds) when set. Explicit params win over Extra.
func (o *Options) Params(params core.Params) core.Params {
	out := make(core.Params, len(params)+len(o.Extra)+4)
	for k, v := range o.Extra {
		out[k] = v
	}
	if o.Limit > 0 {
		out["limit"] = o.Limit
	}
	if o.Page > 0 {
		out["page"] = o.Page
	}
	if !o.StartTime.IsZero() {
		out["start"] = o.StartTime.UnixMilli()
	}
	if !o.EndTime.IsZero() {
		out["end"] = o.EndTime.UnixMilli()
	}
	for k, v := range params {
		out[k] = v
	}
	return out
}
