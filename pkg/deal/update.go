package deal

// Per-section update functions. Each returns a modified copy so callers can
// derive perturbed input sets without sharing state with the original; the
// engine never mutates an input record it was handed.

// WithAcquisition returns a copy with the acquisition section replaced.
func (in UnderwritingInputs) WithAcquisition(a Acquisition) UnderwritingInputs {
	in.Acquisition = a
	return in
}

// WithFinancing returns a copy with the financing section replaced.
func (in UnderwritingInputs) WithFinancing(f Financing) UnderwritingInputs {
	in.Financing = f
	return in
}

// WithOperations returns a copy with the operations section replaced.
func (in UnderwritingInputs) WithOperations(o Operations) UnderwritingInputs {
	in.Operations = o
	return in
}

// WithExit returns a copy with the exit section replaced.
func (in UnderwritingInputs) WithExit(e Exit) UnderwritingInputs {
	in.Exit = e
	return in
}

// WithAcquisition returns a copy with the acquisition section replaced.
func (in BRRRRInputs) WithAcquisition(a Acquisition) BRRRRInputs {
	in.Acquisition = a
	return in
}

// WithBridge returns a copy with the bridge-loan section replaced.
func (in BRRRRInputs) WithBridge(b BridgeLoan) BRRRRInputs {
	in.Bridge = b
	return in
}

// WithRefinance returns a copy with the refinance section replaced.
func (in BRRRRInputs) WithRefinance(r Refinance) BRRRRInputs {
	in.Refinance = r
	return in
}

// WithOperations returns a copy with the operations section replaced.
func (in BRRRRInputs) WithOperations(o Operations) BRRRRInputs {
	in.Operations = o
	return in
}

// WithExit returns a copy with the exit section replaced.
func (in BRRRRInputs) WithExit(e Exit) BRRRRInputs {
	in.Exit = e
	return in
}

// WithAcquisition returns a copy with the acquisition section replaced.
func (in SyndicationInputs) WithAcquisition(a Acquisition) SyndicationInputs {
	in.Acquisition = a
	return in
}

// WithFinancing returns a copy with the financing section replaced.
func (in SyndicationInputs) WithFinancing(f Financing) SyndicationInputs {
	in.Financing = f
	return in
}

// WithOperations returns a copy with the operations section replaced.
func (in SyndicationInputs) WithOperations(o Operations) SyndicationInputs {
	in.Operations = o
	return in
}

// WithExit returns a copy with the exit section replaced.
func (in SyndicationInputs) WithExit(e Exit) SyndicationInputs {
	in.Exit = e
	return in
}

// WithEquity returns a copy with the equity section replaced.
func (in SyndicationInputs) WithEquity(e Equity) SyndicationInputs {
	in.Equity = e
	return in
}
