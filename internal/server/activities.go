package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/metrics"
	"mergington-activities/internal/common/validation"
	"mergington-activities/internal/events"
	"mergington-activities/internal/registry"
)

type messageResponse struct {
	Message string `json:"message"`
}

// activityList marshals as a JSON object keyed by activity name, keeping
// catalog order.
type activityList []registry.Activity

func (l activityList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, activityList(s.registry.Snapshot()))
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, registry.ActionSignedUp, s.registry.Signup)
}

func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, registry.ActionUnregistered, s.registry.Unregister)
}

type rosterOp func(name, email string) (registry.Confirmation, error)

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, action registry.Action, op rosterOp) {
	name := r.PathValue("activity_name")

	email, err := emailParam(r)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	conf, err := op(name, email)
	if err != nil {
		s.recordOperation(r, name, action, metrics.OutcomeError, err)
		s.errors.HandleHTTPError(w, r, s.rosterError(err, name, email))
		return
	}

	s.recordOperation(r, name, action, metrics.OutcomeSuccess, nil)
	metrics.RosterParticipants.WithLabelValues(conf.Activity).Set(float64(conf.Participants))

	event := events.NewRosterEvent(conf)
	if !s.events.Publish(event) {
		s.logger.Warn("Roster event not queued", map[string]interface{}{
			"event_id": event.ID,
			"activity": conf.Activity,
		})
	}

	s.logger.Info("Roster updated", map[string]interface{}{
		"activity":     conf.Activity,
		"action":       string(conf.Action),
		"participants": conf.Participants,
	})
	apperrors.WriteJSON(w, http.StatusOK, messageResponse{Message: conf.Message()})
}

func (s *Server) recordOperation(r *http.Request, name string, action registry.Action, outcome string, err error) {
	// Unknown names stay out of the label set.
	if errors.Is(err, registry.ErrActivityNotFound) {
		name = "unknown"
	}
	metrics.RosterOperations.WithLabelValues(name, string(action), outcome).Inc()
	s.obs.RecordRosterOperation(r.Context(), name, string(action), outcome)
}

func (s *Server) rosterError(err error, name, email string) error {
	switch {
	case errors.Is(err, registry.ErrActivityNotFound):
		return apperrors.NewActivityNotFoundError(name)
	case errors.Is(err, registry.ErrAlreadyRegistered):
		return apperrors.NewAlreadyRegisteredError(name, email)
	case errors.Is(err, registry.ErrActivityFull):
		capacity := 0
		if a, getErr := s.registry.Get(name); getErr == nil {
			capacity = a.MaxParticipants
		}
		return apperrors.NewActivityFullError(name, capacity)
	case errors.Is(err, registry.ErrNotRegistered):
		return apperrors.NewNotRegisteredError(name, email)
	default:
		return apperrors.NewInternalError(err)
	}
}

// emailParam returns the decoded ?email= value.
func emailParam(r *http.Request) (string, error) {
	query := r.URL.Query()
	result := validation.ValidateQuery(query, validation.EmailQuerySchema)
	if !result.Valid {
		return "", apperrors.NewValidationError(
			"Invalid email query parameter",
			strings.Join(result.GetErrorMessages(), "; "),
		)
	}
	return query.Get("email"), nil
}
