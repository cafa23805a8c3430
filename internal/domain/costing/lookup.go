package costing

// FindMaterial resolves ref against materials. Resolution order, first match
// wins: exact id, then case-insensitive trimmed article, then case-insensitive
// trimmed name. Returns nil when nothing matches.
func FindMaterial(ref MaterialRef, materials []MaterialRecord) *MaterialRecord {
	if len(materials) == 0 {
		return nil
	}

	if ref.MaterialID != "" {
		for i := range materials {
			if materials[i].ID == ref.MaterialID {
				return &materials[i]
			}
		}
	}

	if article := normalizeKey(ref.Article); article != "" {
		for i := range materials {
			if normalizeKey(materials[i].Article) == article {
				return &materials[i]
			}
		}
	}

	if name := normalizeKey(ref.Name); name != "" {
		for i := range materials {
			if normalizeKey(materials[i].Name) == name {
				return &materials[i]
			}
		}
	}

	return nil
}

func findRecipe(recipeID string, recipes []PaintRecipe) *PaintRecipe {
	if recipeID == "" {
		return nil
	}
	for i := range recipes {
		if recipes[i].ID == recipeID {
			return &recipes[i]
		}
	}
	return nil
}

func findComplexity(complexityID string, complexities []PaintComplexity) *PaintComplexity {
	if complexityID == "" {
		return nil
	}
	for i := range complexities {
		if complexities[i].ID == complexityID {
			return &complexities[i]
		}
	}
	return nil
}
