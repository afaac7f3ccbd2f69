package dialog

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"

	apperrors "goaround-bot/internal/errors"
	"goaround-bot/internal/models"
)

// Dialogue events
const (
	EventAskLocation   = "ask_location"
	EventAskRadius     = "ask_radius"
	EventAskCategories = "ask_categories"
	EventComplete      = "complete"
	EventReset         = "reset"
)

const stateIdle = "IDLE"

// active are the stages a configuration flow can move between.
// ENTER_TEXT_QUERY is reserved and can only be left through a reset.
var active = []string{
	stateIdle,
	string(models.StageEnterLocation),
	string(models.StageEnterRadius),
	string(models.StageEnterPlacesCategories),
}

var events = fsm.Events{
	{Name: EventAskLocation, Src: active, Dst: string(models.StageEnterLocation)},
	{Name: EventAskRadius, Src: active, Dst: string(models.StageEnterRadius)},
	{Name: EventAskCategories, Src: active, Dst: string(models.StageEnterPlacesCategories)},
	{Name: EventComplete, Src: active, Dst: stateIdle},
	{Name: EventReset, Src: append(append([]string{}, active...), string(models.StageEnterTextQuery)), Dst: stateIdle},
}

// Machine computes stage transitions of the configuration dialogue
type Machine struct {
	logger *logrus.Logger
}

// NewMachine creates a new dialogue machine
func NewMachine(logger *logrus.Logger) *Machine {
	return &Machine{logger: logger}
}

// Next returns the stage reached from a stage by an event.
// Firing an event that keeps the stage is not an error.
func (m *Machine) Next(ctx context.Context, userID int64, from models.WorkingStage, event string) (models.WorkingStage, error) {
	machine := fsm.NewFSM(toState(from), events, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			m.logger.WithFields(logrus.Fields{"user_id": userID, "stage": e.Dst}).Debugf("Dialogue %s -> %s on %s", e.Src, e.Dst, e.Event)
		},
	})

	if err := machine.Event(ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return from, &apperrors.StateError{UserID: userID, State: from.String(), Message: err.Error()}
		}
	}

	return fromState(machine.Current()), nil
}

// AdvanceEvent picks the next event for a location: the first missing field wins,
// in the order position, radius, categories; a complete location finishes the flow.
func AdvanceEvent(location *models.SavedLocation) string {
	switch {
	case !location.HasPosition():
		return EventAskLocation
	case location.Radius == 0:
		return EventAskRadius
	case !location.PlacesCategories.IsSet():
		return EventAskCategories
	default:
		return EventComplete
	}
}

func toState(stage models.WorkingStage) string {
	if stage == models.StageIdle {
		return stateIdle
	}
	return string(stage)
}

func fromState(state string) models.WorkingStage {
	if state == stateIdle {
		return models.StageIdle
	}
	return models.WorkingStage(state)
}
