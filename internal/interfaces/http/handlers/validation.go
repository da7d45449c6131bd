package handlers

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	govalidator "github.com/go-playground/validator/v10"
	"investor-onboarding.backend/internal/domain/entities"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/pkg/validator"
)

var registerOnce sync.Once

// RegisterValidationRules installs the onboarding rules on the shared validator.
func RegisterValidationRules() {
	registerOnce.Do(func() {
		_ = validator.RegisterValidation("investorcategory", func(fl govalidator.FieldLevel) bool {
			return entities.InvestorCategory(fl.Field().String()).Valid()
		})
		_ = validator.RegisterValidation("idtype", func(fl govalidator.FieldLevel) bool {
			return entities.IDType(fl.Field().String()).Valid()
		})
		validator.RegisterStructValidation(saveOnboardingRule, entities.SaveOnboardingInput{})
	})
}

// saveOnboardingRule requires exactly the payload belonging to the step.
func saveOnboardingRule(sl govalidator.StructLevel) {
	input := sl.Current().Interface().(entities.SaveOnboardingInput)
	if input.Step == nil {
		return
	}
	step := *input.Step
	if !step.Valid() {
		sl.ReportError(input.Step, "step", "Step", "onboardingstep", "")
		return
	}

	payloads := []struct {
		present bool
		step    entities.OnboardingStep
		field   interface{}
		name    string
		sname   string
	}{
		{input.InvestorCategory != nil, entities.StepInvestorCategory, input.InvestorCategory, "investorCategory", "InvestorCategory"},
		{input.InvestmentProfile != nil, entities.StepInvestmentProfile, input.InvestmentProfile, "investmentProfile", "InvestmentProfile"},
		{input.Kyc != nil, entities.StepKyc, input.Kyc, "kyc", "Kyc"},
	}
	for _, p := range payloads {
		switch {
		case p.step == step && !p.present:
			sl.ReportError(p.field, p.name, p.sname, "required", "")
		case p.step != step && p.present:
			sl.ReportError(p.field, p.name, p.sname, "excluded", "")
		}
	}
}

// bindJSON decodes the body into dst and validates it, returning a
// BadRequest carrying field messages on failure.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return domainerrors.BadRequest("invalid request body")
	}
	return validate(dst)
}

func validate(dst interface{}) error {
	err := validator.ValidateStruct(dst)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if errors.As(err, &failures) {
		fields := make([]domainerrors.FieldError, 0, len(failures))
		for _, f := range failures {
			fields = append(fields, domainerrors.FieldError{Field: f.Field, Message: f.Message()})
		}
		return domainerrors.Validation(fields)
	}
	return domainerrors.BadRequest(err.Error())
}
