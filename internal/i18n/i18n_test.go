package i18n

import (
	"testing"

	"goaround-bot/internal/models"
)

func TestBundleLookupAndFallback(t *testing.T) {
	bundle, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := bundle.Get(models.English, "Confirm"); got != "Confirm" {
		t.Fatalf("english = %q", got)
	}
	if got := bundle.Get(models.Ukrainian, "Confirm"); got != "Підтвердити" {
		t.Fatalf("ukrainian = %q", got)
	}
	// Ukrainian has no own entry for the GoAround label
	if got := bundle.Get(models.Ukrainian, "GoAround"); got != "GoAround!" {
		t.Fatalf("fallback = %q", got)
	}
	if got := bundle.Get(models.English, "NoSuchKey"); got != "NoSuchKey" {
		t.Fatalf("missing key = %q", got)
	}
}

func TestEveryCategoryHasALabel(t *testing.T) {
	bundle, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, category := range models.PlaceCategories {
		for _, lang := range models.Languages {
			if label := bundle.Category(lang, category.Key); label == category.Key {
				t.Fatalf("category %s has no %s label", category.Key, lang)
			}
		}
	}
}
