package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/internal/models"
)

// holdingInput is a holding as typed by the user, before parsing.
type holdingInput struct {
	Ticker   string `survey:"ticker"`
	Currency string `survey:"currency"`
	Price    string `survey:"price"`
	Quantity string `survey:"quantity"`
	Target   string `survey:"target"`
}

func (in holdingInput) complete() bool {
	return strings.TrimSpace(in.Ticker) != "" &&
		strings.TrimSpace(in.Currency) != "" &&
		strings.TrimSpace(in.Price) != "" &&
		strings.TrimSpace(in.Quantity) != ""
}

// holding parses the input. An empty target means the default target.
func (in holdingInput) holding() (models.Holding, error) {
	currency, err := models.ParseCurrency(in.Currency)
	if err != nil {
		return models.Holding{}, err
	}
	price, err := parseAmount("purchase price", in.Price)
	if err != nil {
		return models.Holding{}, err
	}
	qty, err := parseAmount("quantity", in.Quantity)
	if err != nil {
		return models.Holding{}, err
	}
	target := models.DefaultTargetReturnPercent
	if strings.TrimSpace(in.Target) != "" {
		if target, err = parseAmount("target return", in.Target); err != nil {
			return models.Holding{}, err
		}
	}

	h := models.Holding{
		Ticker:              in.Ticker,
		CostBasis:           price,
		Quantity:            qty,
		Currency:            currency,
		TargetReturnPercent: target,
	}.Normalized()
	return h, h.Validate()
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", models.ErrInvalidHolding, field, s)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s must not be negative", models.ErrInvalidHolding, field)
	}
	return v, nil
}

// Prompter asks the user for missing input.
type Prompter interface {
	AskHolding(prefill holdingInput) (holdingInput, error)
	Confirm(message string) (bool, error)
}

type surveyPrompter struct{}

func amountValidator(field string) survey.Validator {
	return func(val interface{}) error {
		_, err := parseAmount(field, val.(string))
		return err
	}
}

// AskHolding shows the add-holding form, pre-filled with anything given on the command line.
func (surveyPrompter) AskHolding(prefill holdingInput) (holdingInput, error) {
	currencyDefault := strings.ToUpper(strings.TrimSpace(prefill.Currency))
	if currencyDefault != string(models.USD) {
		currencyDefault = string(models.KRW)
	}
	target := prefill.Target
	if strings.TrimSpace(target) == "" {
		target = models.DefaultTargetReturnPercent.String()
	}

	questions := []*survey.Question{
		{
			Name: "ticker",
			Prompt: &survey.Input{
				Message: "Ticker (e.g. AAPL, 005930.KS):",
				Default: prefill.Ticker,
			},
			Validate:  survey.Required,
			Transform: survey.TransformString(strings.TrimSpace),
		},
		{
			Name: "currency",
			Prompt: &survey.Select{
				Message: "Currency:",
				Options: currencyOptions(),
				Default: currencyDefault,
			},
		},
		{
			Name: "price",
			Prompt: &survey.Input{
				Message: "Average purchase price:",
				Default: prefill.Price,
			},
			Validate: amountValidator("purchase price"),
		},
		{
			Name: "quantity",
			Prompt: &survey.Input{
				Message: "Quantity:",
				Default: prefill.Quantity,
			},
			Validate: amountValidator("quantity"),
		},
		{
			Name: "target",
			Prompt: &survey.Input{
				Message: "Target return (%):",
				Default: target,
				Help:    "An alert is shown once the return reaches this percentage",
			},
			Validate: amountValidator("target return"),
		},
	}

	var answers holdingInput
	if err := survey.Ask(questions, &answers); err != nil {
		return holdingInput{}, err
	}
	return answers, nil
}

func (surveyPrompter) Confirm(message string) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func currencyOptions() []string {
	opts := make([]string, 0, len(models.Currencies))
	for _, c := range models.Currencies {
		opts = append(opts, string(c))
	}
	return opts
}
