package reconcile

import (
	"github.com/pawprint/pawprint/pkg/catalog"
	"github.com/pawprint/pawprint/pkg/types"
)

// gradeProduct assigns the completeness grade from the fields present
// after overrides:
//
//	A: full nutrition plus ingredients and life stage
//	B: full nutrition
//	C: calories, or protein and fat together
//	D: everything else
func gradeProduct(p *catalog.Product) types.Grade {
	nutrition := p.KcalPer100g != nil && p.ProteinPercent != nil && p.FatPercent != nil
	switch {
	case nutrition && len(p.Ingredients) > 0 && p.LifeStage != "":
		return types.GradeA
	case nutrition:
		return types.GradeB
	case p.KcalPer100g != nil || (p.ProteinPercent != nil && p.FatPercent != nil):
		return types.GradeC
	default:
		return types.GradeD
	}
}
