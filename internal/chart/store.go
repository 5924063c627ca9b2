package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/healthme/internal/telemetry/tracing"
	"github.com/2beens/healthme/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Store keeps the last rendered chart of every user on disk.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	exists, err := pkg.PathExists(dir, true)
	if err != nil {
		return nil, fmt.Errorf("check charts dir: %w", err)
	}
	if !exists {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create charts dir: %w", err)
		}
		log.Debugf("charts dir created: %s", dir)
	}

	return &Store{
		dir: dir,
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func FileName(userID int) string {
	return fmt.Sprintf("weight_chart_%d.png", userID)
}

func (s *Store) Path(userID int) string {
	return filepath.Join(s.dir, FileName(userID))
}

// Save writes the chart file of the user, and returns the bytes read back from it.
// The file is fully written, synced and closed before it is read back.
func (s *Store) Save(ctx context.Context, userID int, png []byte) (_ []byte, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "chart.store.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tmp, err := os.CreateTemp(s.dir, FileName(userID)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp chart file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(png); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write chart file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("sync chart file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("close chart file: %w", err)
	}

	path := s.Path(userID)
	if err = os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("move chart file: %w", err)
	}

	stored, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read back chart file: %w", err)
	}

	return stored, nil
}
