package discovery

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/dhffiler/internal/filter"
	"github.com/harrison/dhffiler/internal/models"
)

// Logger is the subset of logging used while scanning.
type Logger interface {
	LogDebug(message string)
	LogFamily(family models.Family)
	LogSkipped(skipped models.SkippedPath)
	LogScanSummary(catalog *models.Catalog)
}

// Scanner assembles catalogs from a DHF tree.
type Scanner struct {
	heuristics filter.Heuristics
	layout     Layout
	workers    int
	logger     Logger // optional
}

// NewScanner constructs a Scanner. workers bounds how many families are
// scanned in parallel; zero or less means one per CPU. logger may be nil.
func NewScanner(heuristics filter.Heuristics, layout Layout, workers int, logger Logger) *Scanner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scanner{
		heuristics: heuristics,
		layout:     layout,
		workers:    workers,
		logger:     logger,
	}
}

// familySlot holds one family's scan output until all families finish
type familySlot struct {
	family  models.Family
	skipped []models.SkippedPath
}

// Scan runs a full discovery pass over root.
//
// Families are independent subtrees and are scanned in parallel, each writing
// to its own slot, so the catalog keeps the lexicographic family order no
// matter which scan finishes first.
func (s *Scanner) Scan(ctx context.Context, root string) (*models.Catalog, error) {
	start := time.Now()

	families, err := s.DiscoverFamilies(ctx, root, nil)
	if err != nil {
		return nil, err
	}

	slots := make([]familySlot, len(families.Paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range families.Paths {
		i, path := i, path
		g.Go(func() error {
			family, skipped, err := s.scanFamily(gctx, path)
			if err != nil {
				return err
			}
			slots[i] = familySlot{family: family, skipped: skipped}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan of %s interrupted: %w", root, err)
	}

	catalog := &models.Catalog{
		Root:     root,
		Families: make([]models.Family, 0, len(slots)),
		Skipped:  append([]models.SkippedPath{}, families.Skipped...),
	}
	for _, slot := range slots {
		catalog.Families = append(catalog.Families, slot.family)
		catalog.Skipped = append(catalog.Skipped, slot.skipped...)
	}
	catalog.Duration = time.Since(start)

	if s.logger != nil {
		for _, f := range catalog.Families {
			s.logger.LogFamily(f)
		}
		for _, sp := range catalog.Skipped {
			s.logger.LogSkipped(sp)
		}
		s.logger.LogScanSummary(catalog)
	}

	return catalog, nil
}

// scanFamily builds one family with its subfamilies and documents.
// Only context cancellation is returned as an error.
func (s *Scanner) scanFamily(ctx context.Context, path string) (models.Family, []models.SkippedPath, error) {
	family := models.NewFamily(path)
	skipped := make([]models.SkippedPath, 0)

	subs, err := s.DiscoverSubfamilies(ctx, path)
	if err != nil {
		return family, nil, err
	}
	skipped = append(skipped, subs.Skipped...)
	if !subs.Found {
		if s.logger != nil {
			s.logger.LogDebug(fmt.Sprintf("family %s has no %s folder", family.Name, s.layout.InProgress))
		}
		return family, skipped, nil
	}

	family.Subfamilies = make([]models.SubFamily, 0, len(subs.Paths))
	for _, subPath := range subs.Paths {
		sf := models.NewSubFamily(subPath)

		docs, err := s.DiscoverDocuments(ctx, subPath)
		if err != nil {
			return family, nil, err
		}
		skipped = append(skipped, docs.Skipped...)

		sf.Documents = make([]models.Document, 0, len(docs.Paths))
		for _, docPath := range docs.Paths {
			sf.Documents = append(sf.Documents, models.NewDocument(docPath))
		}
		family.Subfamilies = append(family.Subfamilies, sf)
	}

	return family, skipped, nil
}
