// Command ingestwatch follows the ingestion list of a running docdesk API,
// re-fetching it while any ingestion is still in progress.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/internal/models"
	"github.com/docdesk/docdesk/backend/go-services/internal/poller"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/jonboulle/clockwork"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	base := cfg.Poller.APIURL
	if base == "" {
		base = fmt.Sprintf("http://localhost:%s", cfg.Server.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Second}
	fetch := func(ctx context.Context) ([]models.Ingestion, error) {
		return fetchIngestions(ctx, client, base, os.Getenv("DOCDESK_TOKEN"))
	}

	// exit once a fetched list has nothing left in progress
	onUpdate := func(list []models.Ingestion) {
		if report(list) == 0 {
			stop()
		}
	}

	p := poller.New(clockwork.NewRealClock(), cfg.Poller.Interval, fetch, onUpdate)
	logger.Infof("watching %s/api/ingestions every %s", strings.TrimRight(base, "/"), cfg.Poller.Interval)
	_ = p.Run(ctx)
}

func fetchIngestions(ctx context.Context, client *http.Client, base, token string) ([]models.Ingestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/api/ingestions", nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /api/ingestions: unexpected status %d", resp.StatusCode)
	}
	var list []models.Ingestion
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode ingestions: %w", err)
	}
	return list, nil
}

// report logs a summary of list and returns how many ingestions are in progress.
func report(list []models.Ingestion) int {
	var inProgress, failed int
	for _, ing := range list {
		switch ing.Status {
		case models.IngestionInProgress:
			inProgress++
			logger.Infof("%s %q: %d/%d pages", ing.ID, ing.DocumentTitle, ing.ProcessedPages, ing.TotalPages)
		case models.IngestionFailed:
			failed++
		}
	}
	logger.Infof("ingestions: total=%d in_progress=%d failed=%d", len(list), inProgress, failed)
	return inProgress
}
