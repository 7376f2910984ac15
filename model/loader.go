package model

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notargets/StructFE/element"
	"github.com/notargets/StructFE/internal/logging"
	"github.com/notargets/StructFE/partitions"
	"golang.org/x/sync/errgroup"
)

// Loader rebuilds a Model from a Snapshot in two phases: the complete node
// table first, then the resolution of every element against it. Resolution
// is spread over partitions of the element list that run concurrently; the
// node table is not modified once resolution starts.
type Loader struct {
	Logger  *slog.Logger
	Metrics *Metrics

	PartitionSize int // Elements per partition, 0 resolves everything in one partition
	Strategy      partitions.PartitionStrategy

	// SkipUnresolved drops elements that fail to decode or resolve instead of
	// aborting the whole load.
	SkipUnresolved bool
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return logging.NewNop()
	}
	return l.Logger
}

// Load builds a model from s. Unless SkipUnresolved is set the first
// malformed or unresolvable element aborts the load.
func (l *Loader) Load(ctx context.Context, s *Snapshot) (*Model, error) {
	start := time.Now()
	defer func() { l.Metrics.observe(time.Since(start).Seconds()) }()
	log := l.logger()

	// Phase 1: node table
	m := New()
	for _, nr := range s.Nodes {
		n, err := element.NewNode(nr.Index, nr.X, nr.Y, nr.Z)
		if err != nil {
			return nil, err
		}
		if err := m.AddNode(n); err != nil {
			return nil, err
		}
	}
	log.Debug("node table built", "nodes", m.NumNodes())

	// Phase 2: raw elements
	raws := make([]element.Element, 0, len(s.Elements))
	for _, rec := range s.Elements {
		e, err := element.FromRecord(rec)
		if err != nil {
			l.Metrics.failed(err)
			if !l.SkipUnresolved {
				return nil, err
			}
			log.Warn("skipping element", "index", rec.Index, "kind", rec.Kind, "error", err)
			continue
		}
		raws = append(raws, e)
	}

	// Phase 3: resolution
	size := l.PartitionSize
	if size < 1 {
		size = len(raws)
	}
	layout, err := (&partitions.PartitionBuilder{
		Elements:            partitions.NewElementSet(raws),
		TargetPartitionSize: size,
		Strategy:            l.Strategy,
	}).BuildPartitions()
	if err != nil {
		return nil, err
	}
	log.Debug("resolving elements", "elements", len(raws), "partitions", layout.NumPartitions,
		"strategy", l.Strategy)

	failures := make([]error, len(raws))
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range layout.Partitions {
		members, groups := p.Elements, p.KindGroups
		g.Go(func() error {
			// one kind group after the other, each group in partition order
			for _, grp := range groups {
				for _, local := range grp.LocalIDs {
					if err := gctx.Err(); err != nil {
						return err
					}
					k := members[local]
					if err := raws[k].Resolve(m); err != nil {
						l.Metrics.failed(err)
						if !l.SkipUnresolved {
							return err
						}
						failures[k] = err
						continue
					}
					l.Metrics.resolved()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve elements: %w", err)
	}

	// elements without an index are numbered after every explicit one
	next := 0
	for _, e := range raws {
		if e.HasIndex() && e.Index() >= next {
			next = e.Index() + 1
		}
	}
	m.reserveIndices(next)
	for k, e := range raws {
		if failures[k] != nil {
			log.Warn("skipping element", "index", e.Index(), "kind", e.Kind(), "error", failures[k])
			continue
		}
		if err := m.AddElement(e); err != nil {
			return nil, err
		}
	}
	log.Info("model loaded", "nodes", m.NumNodes(), "elements", len(m.elements),
		"skipped", len(s.Elements)-len(m.elements), "elapsed", time.Since(start))
	return m, nil
}
