package taxcalc

import "errors"

var ErrUnknownFinancialYear = errors.New("unknown financial year")
