package dialog

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"goaround-bot/internal/models"
)

func newMachine() *Machine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewMachine(logger)
}

func TestAdvanceEventOrder(t *testing.T) {
	location := &models.SavedLocation{}
	if got := AdvanceEvent(location); got != EventAskLocation {
		t.Fatalf("no position: %s", got)
	}

	location.LatLng = &models.LatLng{Latitude: 52, Longitude: 13}
	if got := AdvanceEvent(location); got != EventAskRadius {
		t.Fatalf("no radius: %s", got)
	}

	location.Radius = 1000
	if got := AdvanceEvent(location); got != EventAskCategories {
		t.Fatalf("no categories: %s", got)
	}

	location.PlacesCategories = models.CategoriesOf()
	if got := AdvanceEvent(location); got != EventComplete {
		t.Fatalf("complete: %s", got)
	}

	textOnly := &models.SavedLocation{TextQuery: "Kyiv", PlacesCategories: models.CategoriesOf("culture")}
	if got := AdvanceEvent(textOnly); got != EventAskRadius {
		t.Fatalf("text query counts as position, got %s", got)
	}
}

func TestMachineTransitions(t *testing.T) {
	ctx := context.Background()
	m := newMachine()

	cases := []struct {
		from  models.WorkingStage
		event string
		want  models.WorkingStage
	}{
		{models.StageIdle, EventAskLocation, models.StageEnterLocation},
		{models.StageEnterLocation, EventAskRadius, models.StageEnterRadius},
		{models.StageEnterRadius, EventAskCategories, models.StageEnterPlacesCategories},
		{models.StageEnterPlacesCategories, EventComplete, models.StageIdle},
		{models.StageEnterRadius, EventAskRadius, models.StageEnterRadius},
		{models.StageIdle, EventComplete, models.StageIdle},
		{models.StageEnterTextQuery, EventReset, models.StageIdle},
	}
	for _, tc := range cases {
		got, err := m.Next(ctx, 1, tc.from, tc.event)
		if err != nil {
			t.Fatalf("%s on %s: %v", tc.event, tc.from, err)
		}
		if got != tc.want {
			t.Fatalf("%s on %s = %s, want %s", tc.event, tc.from, got, tc.want)
		}
	}
}

func TestReservedStageOnlyResets(t *testing.T) {
	got, err := newMachine().Next(context.Background(), 1, models.StageEnterTextQuery, EventAskRadius)
	if err == nil {
		t.Fatal("expected an error leaving the reserved stage without a reset")
	}
	if got != models.StageEnterTextQuery {
		t.Fatalf("stage should be unchanged, got %s", got)
	}
}
