package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formedit/pkg/drift"
	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/session"
)

// Editor walks a session's sections and prompts for each field with the
// control its current value calls for.
type Editor struct {
	cfg config
}

// NewEditor constructs an editor with the survey driver unless overridden.
func NewEditor(options ...Option) *Editor {
	return &Editor{cfg: newConfig(options)}
}

// Edit prompts through the visible sections. With edit mode off it only
// prints values. Only answers that differ from the current value are written.
func (e *Editor) Edit(ctx context.Context, s *session.Session) error {
	if s == nil {
		return ErrNoSession
	}
	view := s.View()
	for _, section := range view.Sections {
		if !e.cfg.allSections && !section.Expanded {
			continue
		}
		if err := e.info(ctx, fmt.Sprintf("== %s ==", section.Title)); err != nil {
			return err
		}
		for _, field := range section.Fields {
			if !view.EditMode {
				if err := e.info(ctx, fmt.Sprintf("%s: %s", field.Label, field.Display())); err != nil {
					return err
				}
				continue
			}
			if err := e.promptField(ctx, s, field); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Editor) promptField(ctx context.Context, s *session.Session, field session.FieldView) error {
	if field.Affordance == drift.AffordanceTextWithReset {
		return e.promptDrifted(ctx, s, field)
	}
	switch field.Declared {
	case model.FieldTypeBoolean:
		return e.promptBoolean(ctx, s, field)
	case model.FieldTypeSelect:
		return e.promptSelect(ctx, s, field)
	case model.FieldTypeDate:
		return e.promptText(ctx, s, field, validateDate(field.Required))
	default:
		return e.promptText(ctx, s, field, validateRequired(field.Required))
	}
}

func (e *Editor) promptDrifted(ctx context.Context, s *session.Session, field session.FieldView) error {
	current := field.Display()
	response, err := e.cfg.driver.Input(ctx, InputConfig{
		Message: field.Label,
		Default: current,
		Help:    fmt.Sprintf("value no longer matches %s", field.Declared),
	})
	if err != nil {
		return err
	}
	reset, err := e.cfg.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Reset %s to %s?", field.Label, field.Declared),
		Help:    "drops the edit so the original value returns",
	})
	if err != nil {
		return err
	}
	if reset {
		return s.OnResetType(ctx, field.ID)
	}
	if response == current {
		return nil
	}
	return s.OnChangeValue(ctx, field.ID, response)
}

func (e *Editor) promptBoolean(ctx context.Context, s *session.Session, field session.FieldView) error {
	current := field.Value == true || field.Value == "true"
	answer, err := e.cfg.driver.Confirm(ctx, ConfirmConfig{
		Message: field.Label,
		Default: current,
		Help:    field.Description,
	})
	if err != nil {
		return err
	}
	if answer == current {
		return nil
	}
	return s.OnChangeValue(ctx, field.ID, answer)
}

func (e *Editor) promptSelect(ctx context.Context, s *session.Session, field session.FieldView) error {
	if len(field.Options) == 0 {
		return e.promptText(ctx, s, field, validateRequired(field.Required))
	}
	labels := make([]string, len(field.Options))
	defaultIdx := -1
	current := field.Display()
	for i, option := range field.Options {
		labels[i] = option.Label
		if option.Value == current {
			defaultIdx = i
		}
	}
	for {
		idx, err := e.cfg.driver.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         field.Description,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(labels) {
			if err := e.info(ctx, fmt.Sprintf("Invalid %s selection", field.ID)); err != nil {
				return err
			}
			continue
		}
		chosen := field.Options[idx].Value
		if chosen == current {
			return nil
		}
		return s.OnChangeValue(ctx, field.ID, chosen)
	}
}

func (e *Editor) promptText(ctx context.Context, s *session.Session, field session.FieldView, validate func(string) error) error {
	current := field.Display()
	for {
		response, err := e.cfg.driver.Input(ctx, InputConfig{
			Message:   field.Label,
			Default:   current,
			Help:      field.Description,
			Validator: validate,
		})
		if err != nil {
			return err
		}
		if err := validate(response); err != nil {
			if err := e.info(ctx, fmt.Sprintf("Invalid %s: %v", field.ID, err)); err != nil {
				return err
			}
			continue
		}
		if response == current {
			return nil
		}
		if response == "" {
			return s.OnChangeValue(ctx, field.ID, nil)
		}
		return s.OnChangeValue(ctx, field.ID, response)
	}
}

func (e *Editor) info(ctx context.Context, msg string) error {
	return e.cfg.driver.Info(ctx, e.cfg.theme.InfoPrefix+msg)
}

var (
	errRequired   = errors.New("required")
	errDateFormat = errors.New("expected MM/DD/YYYY")
)

func validateRequired(required bool) func(string) error {
	return func(value string) error {
		if required && strings.TrimSpace(value) == "" {
			return errRequired
		}
		return nil
	}
}

func validateDate(required bool) func(string) error {
	return func(value string) error {
		if value == "" {
			if required {
				return errRequired
			}
			return nil
		}
		if _, ok := drift.ParseDate(value); !ok {
			return errDateFormat
		}
		return nil
	}
}
