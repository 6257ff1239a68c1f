package client

import (
	"lead-relay/models"
	"lead-relay/utils"
)

// CallForm holds the call-back form fields as the user types them.
type CallForm struct {
	Name          string
	Phone         string
	PreferredTime string
	Question      string
	// Closed is set once the form was submitted successfully.
	Closed bool
}

func (f *CallForm) SetName(v string)          { f.Name = utils.SanitizeTextInput(v) }
func (f *CallForm) SetPhone(v string)         { f.Phone = v }
func (f *CallForm) SetPreferredTime(v string) { f.PreferredTime = utils.SanitizeTextInput(v) }
func (f *CallForm) SetQuestion(v string)      { f.Question = utils.SanitizeTextInput(v) }

// Reset clears every field.
func (f *CallForm) Reset() {
	*f = CallForm{Closed: f.Closed}
}

func (f *CallForm) request() models.CallRequest {
	return models.CallRequest{
		Name:          f.Name,
		Phone:         f.Phone,
		PreferredTime: f.PreferredTime,
		Question:      f.Question,
	}
}

// CalculatorForm holds the cost calculator fields. Material is a catalog value
// such as "sand".
type CalculatorForm struct {
	Material string
	Volume   string
	Address  string
	Phone    string
	Name     string
	Closed   bool
}

func (f *CalculatorForm) SetMaterial(v string) { f.Material = v }
func (f *CalculatorForm) SetVolume(v string)   { f.Volume = v }
func (f *CalculatorForm) SetAddress(v string)  { f.Address = utils.SanitizeTextInput(v) }
func (f *CalculatorForm) SetPhone(v string)    { f.Phone = v }
func (f *CalculatorForm) SetName(v string)     { f.Name = utils.SanitizeTextInput(v) }

// Reset clears every field.
func (f *CalculatorForm) Reset() {
	*f = CalculatorForm{Closed: f.Closed}
}

// SelectedMaterial looks the chosen material up in the catalog.
func (f *CalculatorForm) SelectedMaterial() (models.Material, bool) {
	for _, m := range models.Catalog {
		if m.Value == f.Material {
			return m, true
		}
	}
	return models.Material{}, false
}

// MaterialCost is price per cubic metre times the entered volume, or 0 while
// either is missing.
func (f *CalculatorForm) MaterialCost() float64 {
	m, ok := f.SelectedMaterial()
	if !ok || f.Volume == "" {
		return 0
	}
	return utils.MaterialCost(m, utils.ParseFloatPrefix(f.Volume))
}

// TotalCost is the display string shown under the calculator.
func (f *CalculatorForm) TotalCost() string {
	return utils.TotalCostDisplay(f.MaterialCost())
}

func (f *CalculatorForm) request() models.CalculationRequest {
	var label string
	if m, ok := f.SelectedMaterial(); ok {
		label = m.Label
	}
	return models.CalculationRequest{
		Name:      f.Name,
		Phone:     f.Phone,
		Material:  label,
		Volume:    utils.FormatVolume(f.Volume),
		Address:   f.Address,
		TotalCost: f.TotalCost(),
	}
}
