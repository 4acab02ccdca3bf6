package personagen

// GenerateRequest asks the model to suggest persona configurations from a
// free-form description.
type GenerateRequest struct {
	Message string `json:"message" binding:"required"`
	Action  string `json:"action,omitempty" binding:"omitempty,oneof=single multiple"`
	Count   int    `json:"count,omitempty" binding:"omitempty,gte=1,lte=10"`
}

// WantsMultiple reports whether the caller asked for more than one suggestion.
func (r *GenerateRequest) WantsMultiple() bool {
	return r.Action == "multiple" || r.Count > 1
}

// EffectiveCount resolves the number of suggestions to produce, capped at 10.
func (r *GenerateRequest) EffectiveCount() int {
	if !r.WantsMultiple() {
		return 1
	}
	if r.Count <= 0 {
		return 3
	}
	if r.Count > 10 {
		return 10
	}
	return r.Count
}
