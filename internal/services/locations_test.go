package services

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"goaround-bot/internal/constants"
	"goaround-bot/internal/models"
	"goaround-bot/internal/store"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRepository(t *testing.T) (*LocationRepository, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(quietLogger())
	return NewLocationRepository(NewSessionService(st, quietLogger()), quietLogger()), st
}

func TestLocationsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	want := map[string]models.SavedLocation{
		"a1b2c3d4": {
			LatLng:           &models.LatLng{Latitude: 50.45, Longitude: 30.52},
			Radius:           1500,
			PlacesCategories: models.CategoriesOf("foodAndDrink", "finance"),
			Title:            "Kyiv",
			Places:           []string{"p1", "p2"},
		},
		"e5f6a7b8": {
			TextQuery:        "Lviv",
			PlacesCategories: models.CategoriesOf(),
			EditMode:         true,
			Places:           []string{},
		},
		"c9d0e1f2": {
			TextQuery: "Odesa",
		},
	}

	if err := repo.SetAll(ctx, 7, want); err != nil {
		t.Fatalf("set all: %v", err)
	}
	got, err := repo.GetAll(ctx, 7)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, want)
	}
	if got["c9d0e1f2"].PlacesCategories.IsSet() {
		t.Fatal("unset categories must stay unset")
	}
	if !got["e5f6a7b8"].PlacesCategories.IsSet() {
		t.Fatal("empty categories must stay set")
	}
}

func TestAddGeneratesUniqueIDsUnderCollision(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	sequence := []string{"aaaa", "aaaa", "aaaa", "bbbb", "aaaa", "bbbb", "cccc", "cccc", "dddd"}
	next := 0
	repo.SetIDGenerator(func() string {
		id := sequence[next%len(sequence)]
		next++
		return id
	})

	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		id, err := repo.Add(ctx, 1, models.SavedLocation{TextQuery: fmt.Sprintf("query %d", i)})
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}

	all, _ := repo.GetAll(ctx, 1)
	if len(all) != 4 {
		t.Fatalf("expected 4 locations, got %d", len(all))
	}
}

func TestAddFailsWhenGeneratorIsExhausted(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	repo.SetIDGenerator(func() string { return "same" })

	if _, err := repo.Add(ctx, 1, models.SavedLocation{TextQuery: "first"}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := repo.Add(ctx, 1, models.SavedLocation{TextQuery: "second"}); err == nil {
		t.Fatal("expected an error when every candidate collides")
	}
}

func TestShortIDLength(t *testing.T) {
	if id := ShortID(); len(id) != constants.LocationIDLength {
		t.Fatalf("id %q has length %d", id, len(id))
	}
}

func TestEditModeExclusivity(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := repo.Add(ctx, 2, models.SavedLocation{TextQuery: fmt.Sprintf("q%d", i), EditMode: true})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		ids = append(ids, id)
	}

	if err := repo.EnableEditMode(ctx, 2, ids[1]); err != nil {
		t.Fatalf("enable edit mode: %v", err)
	}

	all, _ := repo.GetAll(ctx, 2)
	for id, location := range all {
		if id == ids[1] && !location.EditMode {
			t.Fatalf("location %s should be in edit mode", id)
		}
		if id != ids[1] && location.EditMode {
			t.Fatalf("location %s should not be in edit mode", id)
		}
	}

	target, ok, err := repo.GetEditTargetID(ctx, 2)
	if err != nil || !ok || target != ids[1] {
		t.Fatalf("edit target = %q ok=%v err=%v", target, ok, err)
	}

	if err := repo.DisableEditMode(ctx, 2, ids[1]); err != nil {
		t.Fatalf("disable edit mode: %v", err)
	}
	if _, ok, _ := repo.GetEditTargetID(ctx, 2); ok {
		t.Fatal("expected no edit target")
	}
}

func TestCorruptLocationsSelfHeal(t *testing.T) {
	ctx := context.Background()
	repo, st := newTestRepository(t)

	if err := st.HSet(ctx, "session:3", map[string]string{constants.FieldLocations: "not json at all"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := repo.GetAll(ctx, 3)
		if err != nil {
			t.Fatalf("get all %d: %v", i, err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty map, got %v", got)
		}
	}

	raw, _, _ := st.HGet(ctx, "session:3", constants.FieldLocations)
	if raw != "{}" {
		t.Fatalf("corrupt blob should be overwritten, got %q", raw)
	}
}

func TestGetMissingLocation(t *testing.T) {
	repo, _ := newTestRepository(t)
	location, err := repo.Get(context.Background(), 4, "missing")
	if err != nil || location != nil {
		t.Fatalf("expected nil location and no error, got %v %v", location, err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	id, _ := repo.Add(ctx, 5, models.SavedLocation{TextQuery: "Dnipro"})
	if _, err := repo.Add(ctx, 5, models.SavedLocation{TextQuery: "Kharkiv"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	removed, err := repo.Remove(ctx, 5, id)
	if err != nil || !removed {
		t.Fatalf("remove existing = %v, %v", removed, err)
	}
	removed, err = repo.Remove(ctx, 5, id)
	if err != nil || removed {
		t.Fatalf("remove missing = %v, %v", removed, err)
	}

	if err := repo.ClearAll(ctx, 5); err != nil {
		t.Fatalf("clear: %v", err)
	}
	all, _ := repo.GetAll(ctx, 5)
	if len(all) != 0 {
		t.Fatalf("expected no locations, got %d", len(all))
	}
}

func TestPlacesCategoriesOperations(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	id, _ := repo.Add(ctx, 6, models.SavedLocation{TextQuery: "Poltava", Radius: 500})

	categories, err := repo.GetPlacesCategories(ctx, 6, id)
	if err != nil {
		t.Fatalf("get categories: %v", err)
	}
	if categories.IsSet() {
		t.Fatal("new location must have unset categories")
	}

	if err := repo.AddPlacesCategory(ctx, 6, id, "culture"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if err := repo.AddPlacesCategory(ctx, 6, id, "culture"); err != nil {
		t.Fatalf("add category twice: %v", err)
	}
	if err := repo.AddPlacesCategory(ctx, 6, id, "sports"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	categories, _ = repo.GetPlacesCategories(ctx, 6, id)
	if !reflect.DeepEqual(categories.Items(), []string{"culture", "sports"}) {
		t.Fatalf("unexpected categories %v", categories.Items())
	}

	if err := repo.RemovePlacesCategory(ctx, 6, id, "culture"); err != nil {
		t.Fatalf("remove category: %v", err)
	}
	if err := repo.RemovePlacesCategory(ctx, 6, id, "sports"); err != nil {
		t.Fatalf("remove category: %v", err)
	}
	categories, _ = repo.GetPlacesCategories(ctx, 6, id)
	if !categories.IsSet() || categories.Len() != 0 {
		t.Fatalf("expected set but empty categories, got set=%v len=%d", categories.IsSet(), categories.Len())
	}

	if err := repo.SetPlacesCategories(ctx, 6, id, models.Categories{}); err != nil {
		t.Fatalf("set categories: %v", err)
	}
	categories, _ = repo.GetPlacesCategories(ctx, 6, id)
	if categories.IsSet() {
		t.Fatal("expected categories to be reset to unset")
	}

	if _, err := repo.GetPlacesCategories(ctx, 6, "missing"); err == nil {
		t.Fatal("expected not found error for unknown location")
	}
}

func TestWorkingStageDefaults(t *testing.T) {
	ctx := context.Background()
	repo, st := newTestRepository(t)

	stage, err := repo.GetWorkingStage(ctx, 8)
	if err != nil || stage != models.StageIdle {
		t.Fatalf("expected idle stage, got %v %v", stage, err)
	}

	if err := repo.SetWorkingStage(ctx, 8, models.StageEnterRadius); err != nil {
		t.Fatalf("set stage: %v", err)
	}
	stage, _ = repo.GetWorkingStage(ctx, 8)
	if stage != models.StageEnterRadius {
		t.Fatalf("stage = %v", stage)
	}

	if err := st.HSet(ctx, "session:8", map[string]string{constants.FieldWorkingStage: "DANCING"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	stage, err = repo.GetWorkingStage(ctx, 8)
	if err != nil || stage != models.StageIdle {
		t.Fatalf("invalid stage should read as idle, got %v %v", stage, err)
	}
	if _, ok, _ := st.HGet(ctx, "session:8", constants.FieldWorkingStage); ok {
		t.Fatal("invalid stage should be cleared")
	}
}

func TestLanguageDefaults(t *testing.T) {
	ctx := context.Background()
	repo, st := newTestRepository(t)

	lang, err := repo.GetLanguage(ctx, 9)
	if err != nil || lang != models.Ukrainian {
		t.Fatalf("expected default language, got %v %v", lang, err)
	}

	if err := repo.SetLanguage(ctx, 9, models.English); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if lang, _ = repo.GetLanguage(ctx, 9); lang != models.English {
		t.Fatalf("language = %v", lang)
	}

	if err := st.HSet(ctx, "session:9", map[string]string{constants.FieldLanguage: "KLINGON"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if lang, _ = repo.GetLanguage(ctx, 9); lang != models.Ukrainian {
		t.Fatalf("invalid language should fall back, got %v", lang)
	}
}

func TestPromptMessageID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	if _, ok, _ := repo.GetPromptMessageID(ctx, 10); ok {
		t.Fatal("expected no prompt message")
	}
	if err := repo.SetPromptMessageID(ctx, 10, 42); err != nil {
		t.Fatalf("set prompt: %v", err)
	}
	id, ok, err := repo.GetPromptMessageID(ctx, 10)
	if err != nil || !ok || id != 42 {
		t.Fatalf("prompt = %d ok=%v err=%v", id, ok, err)
	}
	if err := repo.ClearPromptMessageID(ctx, 10); err != nil {
		t.Fatalf("clear prompt: %v", err)
	}
	if _, ok, _ := repo.GetPromptMessageID(ctx, 10); ok {
		t.Fatal("prompt should be cleared")
	}
}
