package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wellnest/messaging/internal/domain"
)

var participantIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

var textRule = fmt.Sprintf("min=%d,max=%d", domain.MinTextLength, domain.MaxTextLength)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Ids never contain the conversation separator, so a conversation id
	// always splits back into exactly two participants.
	_ = v.RegisterValidation("participantid", func(fl validator.FieldLevel) bool {
		return participantIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("humanrole", func(fl validator.FieldLevel) bool {
		return domain.ValidRole(domain.Role(fl.Field().String()))
	})
	return v
}

type participantInput struct {
	ID string `validate:"participantid"`
}

type pairInput struct {
	UserID string `validate:"participantid"`
	PeerID string `validate:"participantid,nefield=UserID"`
}

type participantRecordInput struct {
	ID   string `validate:"participantid,ne=assistant"`
	Name string `validate:"required,max=200"`
	Role string `validate:"humanrole"`
}

func validateParticipantID(id string) error {
	return validationError(validate.Struct(participantInput{ID: id}))
}

func validatePair(userID, peerID string) error {
	return validationError(validate.Struct(pairInput{UserID: userID, PeerID: peerID}))
}

// normalizeText trims surrounding whitespace and checks the length bounds.
func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	var fieldErrs validator.ValidationErrors
	if err := validate.Var(text, textRule); errors.As(err, &fieldErrs) {
		if fieldErrs[0].Tag() == "max" {
			return "", fmt.Errorf("%w: text exceeds %d characters", domain.ErrValidation, domain.MaxTextLength)
		}
		return "", fmt.Errorf("%w: text must not be empty", domain.ErrValidation)
	} else if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return text, nil
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(parts, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "participantid":
		return fmt.Sprintf("%s is not a valid participant id", fe.Field())
	case "nefield":
		return "cannot start a conversation with yourself"
	case "required":
		return fmt.Sprintf("%s must not be empty", strings.ToLower(fe.Field()))
	case "max":
		return fmt.Sprintf("%s exceeds %s characters", strings.ToLower(fe.Field()), fe.Param())
	case "humanrole":
		return fmt.Sprintf("role %q is not assignable", fe.Value())
	case "ne":
		return fmt.Sprintf("%s %q is reserved", fe.Field(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
