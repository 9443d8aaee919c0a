package taxcalc

type GSTResult struct {
	Mode        string  `json:"type"`
	Rate        float64 `json:"rate"`
	NetAmount   float64 `json:"netAmount"`
	GSTAmount   float64 `json:"gstAmount"`
	TotalAmount float64 `json:"totalAmount"`
	CGST        float64 `json:"cgst"`
	SGST        float64 `json:"sgst"`
}

// GSTPrice adds GST to a net price (exclusive) or extracts it from a gross price (inclusive).
// Any mode other than inclusive is treated as exclusive.
func GSTPrice(amount, rate float64, mode string) GSTResult {
	var net, gst, total float64
	if mode == GSTModeInclusive {
		net = amount * (100 / (100 + rate))
		gst = amount - net
		total = amount
	} else {
		mode = GSTModeExclusive
		gst = amount * rate / 100
		total = amount + gst
		net = amount
	}
	return GSTResult{
		Mode:        mode,
		Rate:        rate,
		NetAmount:   round2(net),
		GSTAmount:   round2(gst),
		TotalAmount: round2(total),
		CGST:        round2(gst / 2),
		SGST:        round2(gst / 2),
	}
}
