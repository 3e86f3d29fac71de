package store

import (
	"time"

	"github.com/google/uuid"
)

func newOptions(opts []Option) options {
	cfg := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// stampNew assigns an id when missing and sets both timestamps.
func (o options) stampNew(meta *Meta) {
	if meta.ID == "" {
		meta.ID = o.newID()
	}
	now := o.now()
	meta.CreatedAt = now
	meta.UpdatedAt = now
}
