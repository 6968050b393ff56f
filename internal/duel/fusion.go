package duel

// FallbackKind names which fallback a failed fusion produced.
type FallbackKind string

const (
	// FallbackWeak is the result of a failed two-material fusion, or
	// of a chain whose second pairing missed.
	FallbackWeak FallbackKind = "WEAK"
	// FallbackLocked is the result of a chain whose first pairing
	// missed. The monster enters in DEFENSE position and may not
	// attack for one turn.
	FallbackLocked FallbackKind = "LOCKED"
)

// FusionOutcome is the full result of a material-combination lookup.
type FusionOutcome struct {
	ResultTemplateID int
	Failed           bool
	Fallback         FallbackKind
	Steps            []FusionStep
}

// ResolveFusion resolves 2 or 3 material templates against the recipe
// table, in declared order.
//
// Two materials: one unordered sequence-pair lookup; a miss yields the
// weak fallback. Three materials resolve left-associatively: materials
// 1+2 first, where a miss fails the whole fusion with the locked
// fallback, then the intermediate result pairs with material 3, whose
// success or failure decides the final outcome.
//
// The seed parameter is accepted for interface stability but the
// resolution is a pure deterministic table lookup that never reads it.
func ResolveFusion(cat Catalog, materialTemplateIDs []int, seed int64) FusionOutcome {
	_ = seed

	if n := len(materialTemplateIDs); n < 2 || n > 3 {
		panic(errIntegrity("fusion requires 2 or 3 materials, got %d", n))
	}

	first, second := materialTemplateIDs[0], materialTemplateIDs[1]
	step := lookupPair(cat, first, second)
	out := FusionOutcome{Steps: []FusionStep{step}}

	if len(materialTemplateIDs) == 2 {
		if step.Failed {
			out.Failed = true
			out.Fallback = FallbackWeak
			out.ResultTemplateID = cat.FallbackWeak()
			return out
		}
		out.ResultTemplateID = step.ResultTemplateID
		return out
	}

	if step.Failed {
		out.Failed = true
		out.Fallback = FallbackLocked
		out.ResultTemplateID = cat.FallbackLocked()
		return out
	}

	third := materialTemplateIDs[2]
	step2 := lookupPair(cat, step.ResultTemplateID, third)
	out.Steps = append(out.Steps, step2)
	if step2.Failed {
		out.Failed = true
		out.Fallback = FallbackWeak
		out.ResultTemplateID = cat.FallbackWeak()
		return out
	}
	out.ResultTemplateID = step2.ResultTemplateID
	return out
}

func lookupPair(cat Catalog, leftTemplate, rightTemplate int) FusionStep {
	left := mustLookup(cat, leftTemplate)
	right := mustLookup(cat, rightTemplate)
	step := FusionStep{LeftTemplateID: leftTemplate, RightTemplateID: rightTemplate}
	result, ok := cat.FusionResult(left.Sequence, right.Sequence)
	if !ok {
		step.Failed = true
		return step
	}
	step.ResultTemplateID = result
	return step
}
