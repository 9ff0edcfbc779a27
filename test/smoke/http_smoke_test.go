package smoke

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rajasatyajit/roadside/internal/api"
	"github.com/rajasatyajit/roadside/internal/catalog"
	"github.com/rajasatyajit/roadside/internal/classifier"
	"github.com/rajasatyajit/roadside/internal/dispatch"
	"github.com/rajasatyajit/roadside/internal/locator"
	sdk "github.com/rajasatyajit/roadside/sdk/go"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	loc, err := locator.New(catalog.Default())
	if err != nil {
		t.Fatal(err)
	}
	h := api.NewHandler(dispatch.New(classifier.New(), loc, nil), nil, nil, "dev", time.Now().Format(time.RFC3339), "git")
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthAndDispatchSmoke(t *testing.T) {
	srv := newServer(t)
	c := sdk.New(srv.URL)
	ctx := context.Background()

	health, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("/api/health %v", err)
	}
	if health["status"] != "connected" {
		t.Fatalf("/api/health status %v", health["status"])
	}

	res, err := c.RequestAssistance(ctx, sdk.AssistanceRequest{
		UserText:     "Battery is dead, car won't start",
		UserLocation: &sdk.Location{Lat: 10.15, Lon: 10.15},
	})
	if err != nil {
		t.Fatalf("request-assistance %v", err)
	}
	if res.Status != "assigned" || res.IssueType == nil || *res.IssueType != "battery" {
		t.Fatalf("unexpected result %+v", res)
	}

	res, err = c.RequestAssistance(ctx, sdk.AssistanceRequest{UserText: "Help"})
	if err != nil {
		t.Fatalf("request-assistance %v", err)
	}
	if res.Status != "waiting_for_location" || res.MechanicID != nil {
		t.Fatalf("unexpected result %+v", res)
	}

	st, err := c.LiveStatus(ctx, 1200)
	if err != nil || st.Status != "on_the_way" {
		t.Fatalf("status %+v %v", st, err)
	}

	err = c.RecordCancellation(ctx, "u-1")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected 503 without tracking, got %v", err)
	}
}
