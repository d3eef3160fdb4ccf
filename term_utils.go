package pubgrub

import "fmt"

func termAllowedSet(term Term) (VersionSet, bool) {
	if !term.Positive {
		return nil, false
	}

	switch cond := term.Condition.(type) {
	case nil:
		return (&VersionIntervalSet{}).Full(), true
	case EqualsCondition:
		return (&VersionIntervalSet{}).Singleton(cond.Version), true
	case *EqualsCondition:
		if cond == nil {
			return (&VersionIntervalSet{}).Full(), true
		}
		return (&VersionIntervalSet{}).Singleton(cond.Version), true
	case *VersionSetCondition:
		if cond == nil || cond.Set == nil {
			return (&VersionIntervalSet{}).Full(), true
		}
		return cond.Set, true
	default:
		if conv, ok := term.Condition.(VersionSetConverter); ok {
			if set := conv.ToVersionSet(); set != nil {
				return set, true
			}
		}
		return nil, false
	}
}

func termForbiddenSet(term Term) (VersionSet, bool) {
	if term.Positive {
		return nil, false
	}

	switch cond := term.Condition.(type) {
	case nil:
		return (&VersionIntervalSet{}).Full(), true
	case EqualsCondition:
		return (&VersionIntervalSet{}).Singleton(cond.Version), true
	case *EqualsCondition:
		if cond == nil {
			return (&VersionIntervalSet{}).Full(), true
		}
		return (&VersionIntervalSet{}).Singleton(cond.Version), true
	case *VersionSetCondition:
		if cond == nil || cond.Set == nil {
			return (&VersionIntervalSet{}).Full(), true
		}
		return cond.Set, true
	default:
		if conv, ok := term.Condition.(VersionSetConverter); ok {
			if set := conv.ToVersionSet(); set != nil {
				return set, true
			}
		}
		return nil, false
	}
}

func applyTermToAllowed(current VersionSet, term Term) (VersionSet, error) {
	if current == nil {
		current = (&VersionIntervalSet{}).Full()
	}

	if term.Positive {
		allowed, ok := termAllowedSet(term)
		if !ok {
			return nil, fmt.Errorf("term %s does not support positive conversion", term)
		}
		return current.Intersection(allowed), nil
	}

	forbidden, ok := termForbiddenSet(term)
	if !ok {
		return nil, fmt.Errorf("term %s does not support negative conversion", term)
	}
	return current.Intersection(forbidden.Complement()), nil
}

func termFromAllowedSet(name Name, set VersionSet) Term {
	if set == nil {
		set = (&VersionIntervalSet{}).Full()
	}

	if version, ok := singletonVersionFromSet(set); ok {
		return Term{
			Name:      name,
			Condition: EqualsCondition{Version: version},
			Positive:  true,
		}
	}

	return Term{
		Name:      name,
		Condition: NewVersionSetCondition(set),
		Positive:  true,
	}
}

func termFromForbiddenSet(name Name, set VersionSet) Term {
	if set == nil {
		set = (&VersionIntervalSet{}).Full()
	}

	return Term{
		Name:      name,
		Condition: NewVersionSetCondition(set),
		Positive:  false,
	}
}

func setsEqual(a, b VersionSet) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsSubset(b) && b.IsSubset(a)
}

// mergeTermsForPackage folds every term constraining the same package into a
// single term, following the intersection rules of the term algebra:
// +A∧+B=+(A∩B), +A∧¬B=+(A\B), ¬A∧¬B=¬(A∪B). Returns ok=false when the
// merged term is vacuous and should be dropped: a positive term over ⊥
// (unsatisfiable, discarded as a weakening) or a negative term over ⊥
// (≡⊤, a tautology that constrains nothing).
func mergeTermsForPackage(terms []Term) (Term, bool) {
	if len(terms) == 0 {
		return Term{}, false
	}
	if len(terms) == 1 {
		t := terms[0]
		if t.Positive {
			if set, ok := termAllowedSet(t); ok && set.IsEmpty() {
				return Term{}, false
			}
		} else if set, ok := termForbiddenSet(t); ok && set.IsEmpty() {
			return Term{}, false
		}
		return t, true
	}

	name := terms[0].Name
	sawPositive := false
	var positiveSet VersionSet
	var forbiddenUnion VersionSet

	for _, t := range terms {
		if t.Positive {
			set, ok := termAllowedSet(t)
			if !ok {
				set = FullVersionSet()
			}
			if !sawPositive {
				positiveSet = set
				sawPositive = true
			} else {
				positiveSet = positiveSet.Intersection(set)
			}
			continue
		}

		set, ok := termForbiddenSet(t)
		if !ok {
			set = FullVersionSet()
		}
		if sawPositive {
			positiveSet = positiveSet.Intersection(set.Complement())
		} else if forbiddenUnion == nil {
			forbiddenUnion = set
		} else {
			forbiddenUnion = forbiddenUnion.Union(set)
		}
	}

	if sawPositive {
		if positiveSet.IsEmpty() {
			return Term{}, false
		}
		return termFromAllowedSet(name, positiveSet), true
	}

	if forbiddenUnion == nil || forbiddenUnion.IsEmpty() {
		return Term{}, false
	}
	return termFromForbiddenSet(name, forbiddenUnion), true
}
