package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"cekkirim-tycoon-service/services"
	"cekkirim-tycoon-service/utils"
)

// TrackableEvent matches the JSON emitted by the core CekKirim sync endpoint.
type TrackableEvent struct {
	UserID     string    `json:"user_id"`
	EventType  string    `json:"event_type"` // e.g., "create_shipment", "topup_wallet"
	Count      int       `json:"count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventSyncClient polls the core platform for trackable business events and
// feeds them into mission progress. This is the path by which shipments,
// rate checks and wallet top-ups advance missions without the monolith
// calling us synchronously.
type EventSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Missions   *services.MissionService
}

func NewEventSyncClient(missions *services.MissionService) *EventSyncClient {
	baseURL := os.Getenv("CORE_SYNC_URL")
	if baseURL == "" {
		log.Fatal("CORE_SYNC_URL environment variable is required")
	}
	token := os.Getenv("TYCOON_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("TYCOON_SERVICE_TOKEN environment variable is required for event sync")
	}

	return &EventSyncClient{
		BaseURL:    baseURL,
		Token:      token,
		Missions:   missions,
		HTTPClient: utils.HTTPClient,
	}
}

func (c *EventSyncClient) GetTrackableEvents(ctx context.Context, since time.Time) ([]TrackableEvent, error) {
	since = since.UTC()

	u, err := url.Parse(fmt.Sprintf("%s/api/v1/internal/mission-events", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call core sync service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("core sync service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Events []TrackableEvent `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode core sync response: %w", err)
	}

	return response.Events, nil
}

// PollEvents runs until ctx is cancelled. The cursor only advances after a
// fully tracked batch, so a failed tick is retried over the same window.
func PollEvents(ctx context.Context, client *EventSyncClient, pollInterval time.Duration) {
	log.Println("Starting mission event polling…")
	lastSyncTime := time.Now().UTC().Add(-1 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Mission event polling stopped.")
			return
		case <-ticker.C:
			tickTime := time.Now().UTC()

			events, err := client.GetTrackableEvents(ctx, lastSyncTime)
			if err != nil {
				log.Printf("❌ Error polling mission events: %v", err)
				continue
			}

			if len(events) == 0 {
				continue
			}
			log.Printf("📥 Received %d trackable event(s) from core.", len(events))

			failed := false
			for _, ev := range events {
				// Track against the day the event happened, not the day we
				// saw it — events straddling midnight land on the right batch.
				if err := client.Missions.TrackMissionEvent(ev.UserID, ev.EventType, ev.Count, ev.OccurredAt); err != nil {
					log.Printf("❌ Failed to track %s for %s: %v", ev.EventType, ev.UserID, err)
					failed = true
					break
				}
			}
			if failed {
				// Do NOT advance the cursor — retry the window next tick.
				// Tracking is clamped and claim-gated, so replays are harmless.
				continue
			}

			lastSyncTime = tickTime
			log.Printf("✅ Tracked %d event(s).", len(events))
		}
	}
}
