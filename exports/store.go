// Package exports archives rendered PDFs to a local directory or S3.
package exports

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ByLCY/cvpress/config"
)

// Store saves a rendered PDF under key and returns where it was written.
type Store interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
}

// Key builds the archive key for one rendering: <owner>/<UTC timestamp>.pdf.
// Ad-hoc renderings without a stored resume use the owner "adhoc".
func Key(owner string, at time.Time) string {
	owner = strings.Trim(strings.TrimSpace(owner), "/")
	if owner == "" {
		owner = "adhoc"
	}
	return path.Join(owner, at.UTC().Format("20060102T150405.000000000Z")+".pdf")
}

// FromConfig builds the store selected by EXPORT_STORE. "none" returns a nil Store.
func FromConfig(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.ExportStore {
	case "", config.ExportNone:
		return nil, nil
	case config.ExportLocal:
		return NewLocal(cfg.ExportDir), nil
	case config.ExportS3:
		store, err := NewS3(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown export store %q", cfg.ExportStore)
	}
}
