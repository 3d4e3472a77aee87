package validation

import "ymph-crud/internal/shared/apperror"

// Rule is one check in a field set. Check returns nil when the field passes.
type Rule func() error

// Required fails with "<Label> is required." when value is blank.
func Required(label, value string) Rule {
	return func() error {
		if IsBlank(value) {
			return apperror.Validation(label, label+" is required.")
		}
		return nil
	}
}

// When runs fn only when value is present, for optional fields.
func When(value string, fn Rule) Rule {
	return func() error {
		if IsBlank(value) {
			return nil
		}
		return fn()
	}
}

// Check fails with message unless ok holds.
func Check(label string, ok func() bool, message string) Rule {
	return func() error {
		if !ok() {
			return apperror.Validation(label, message)
		}
		return nil
	}
}

// FirstError walks the groups in order (required, format, numeric) and
// returns the first failure. Later rules are not evaluated.
func FirstError(groups ...[]Rule) error {
	for _, group := range groups {
		for _, rule := range group {
			if err := rule(); err != nil {
				return err
			}
		}
	}
	return nil
}
