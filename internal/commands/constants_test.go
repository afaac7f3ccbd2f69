package commands

import (
	"testing"

	"goaround-bot/internal/models"
)

func TestParseCallbackTypedArguments(t *testing.T) {
	cb, err := ParseCallback("PlaceInf a1b2c3d4 ChIJ123")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cb.Action != PlaceInfo || cb.LocationID != "a1b2c3d4" || cb.PlaceID != "ChIJ123" {
		t.Fatalf("unexpected callback %+v", cb)
	}

	cb, err = ParseCallback("SelLocPlcCat a1b2c3d4 foodAndDrink")
	if err != nil || cb.Category != "foodAndDrink" {
		t.Fatalf("category callback = %+v, %v", cb, err)
	}

	cb, err = ParseCallback("SetLang ENGLISH")
	if err != nil || cb.Language != models.English {
		t.Fatalf("language callback = %+v, %v", cb, err)
	}

	cb, err = ParseCallback("SetSearchMode False")
	if err != nil || cb.Enabled {
		t.Fatalf("switch callback = %+v, %v", cb, err)
	}
}

func TestParseCallbackRejectsBadInput(t *testing.T) {
	for _, data := range []string{
		"",
		"Dance",
		"LocInf",
		"LocInf a b",
		"SelLocPlcCat a1 pets",
		"SetLang KLINGON",
		"SetSearchMode maybe",
	} {
		if _, err := ParseCallback(data); err == nil {
			t.Fatalf("expected %q to be rejected", data)
		}
	}
}

func TestCallbackDataRoundTrip(t *testing.T) {
	for _, data := range []string{
		Data(GoToMenu),
		LocationData(GoAroundLocation, "abcd1234"),
		PlaceData(PlaceQR, "abcd1234", "place-1"),
		CategoryData("abcd1234", "sports"),
		Callback{Action: SetSearchMode, Enabled: true}.Data(),
	} {
		cb, err := ParseCallback(data)
		if err != nil {
			t.Fatalf("parse %q: %v", data, err)
		}
		if cb.Data() != data {
			t.Fatalf("re-encoded %q as %q", data, cb.Data())
		}
		if len(data) > 64 {
			t.Fatalf("callback data %q exceeds Telegram's limit", data)
		}
	}
}

func TestCommandName(t *testing.T) {
	if CommandName("/start@goaround_bot extra") != Start {
		t.Fatal("mention should be stripped")
	}
	if !IsCommand("/locations") || !IsCommand("/unknown") || IsCommand("hello") || IsCommand("  ") {
		t.Fatal("command detection mismatch")
	}
}
