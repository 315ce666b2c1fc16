// Package knowledge holds the static disease reference for every stage code.
package knowledge

import (
	"leafstage/models"
)

var entries = map[models.Stage]models.DiseaseInfo{
	models.StageHealthy: {
		Stage:          models.StageHealthy,
		Name:           "Healthy Leaf",
		SeverityWeight: 0,
		Symptoms: []string{
			"Uniform green coloration across the blade",
			"No visible spots, lesions or yellow halos",
			"Leaf margins intact and turgid",
		},
		Interpretation: "Photosynthetic tissue is intact. No pathogen activity is visible at the leaf surface.",
		Treatment: models.Treatment{
			Preventive: []string{
				"Keep scouting the field weekly, lower canopy first",
				"Avoid overhead irrigation late in the day",
			},
			Cultural: []string{
				"Maintain plant spacing for airflow",
				"Remove volunteer plants and weed hosts around the plot",
			},
			Nutritional: []string{
				"Keep a balanced NPK program; avoid excess nitrogen",
			},
		},
	},
	models.StageEarly: {
		Stage:          models.StageEarly,
		Name:           "Early Leaf Blight",
		SeverityWeight: 0.3,
		Symptoms: []string{
			"Small scattered brown specks, usually under 3 mm",
			"Faint yellow halo around some specks",
			"Lesions mostly on older, lower leaves",
		},
		Interpretation: "The fungus has established a few primary infection sites. Spread is still local and the leaf keeps most of its photosynthetic capacity.",
		Treatment: models.Treatment{
			Immediate: []string{
				"Remove and bag the affected lower leaves",
				"Mark the plant and re-check it within 3 days",
			},
			Preventive: []string{
				"Apply a protectant fungicide (copper or chlorothalonil) to neighbouring plants",
				"Switch to drip or morning irrigation",
			},
			Cultural: []string{
				"Mulch the soil surface to stop spore splash",
				"Disinfect pruning tools between plants",
			},
		},
	},
	models.StageMid: {
		Stage:          models.StageMid,
		Name:           "Progressive Leaf Blight",
		SeverityWeight: 0.6,
		Symptoms: []string{
			"Enlarging brown lesions with concentric rings",
			"Yellowing tissue between lesions",
			"Lesions appearing on middle canopy leaves",
		},
		Interpretation: "Secondary infection cycles are running. Lesions are merging and the leaf is losing functional area, which will reduce yield if left untreated.",
		Treatment: models.Treatment{
			Immediate: []string{
				"Prune all leaves with more than a quarter of their area affected",
				"Start a curative fungicide program within 48 hours",
			},
			Preventive: []string{
				"Treat adjacent rows as exposed and spray them too",
			},
			Cultural: []string{
				"Increase airflow by staking and thinning",
				"Do not work in the field while foliage is wet",
			},
			Chemical: []string{
				"Systemic fungicide (azoxystrobin or difenoconazole), rotate modes of action",
				"Repeat at label interval, typically 7 to 10 days",
			},
			Nutritional: []string{
				"Apply potassium to support cell wall strength",
			},
		},
	},
	models.StageSevere: {
		Stage:          models.StageSevere,
		Name:           "Severe Leaf Blight",
		SeverityWeight: 1.0,
		Symptoms: []string{
			"Large necrotic patches covering much of the blade",
			"Leaf curling, drying and premature drop",
			"Dark dead tissue extending to stems",
		},
		Interpretation: "Most of the leaf tissue is dead. The plant is defoliating and acts as a spore source for the rest of the field.",
		Treatment: models.Treatment{
			Immediate: []string{
				"Remove and destroy heavily infected plants away from the field",
				"Do not compost infected material",
			},
			Cultural: []string{
				"Rotate away from solanaceous crops for at least two seasons",
				"Deep-plough crop residue after harvest",
			},
			Chemical: []string{
				"Systemic plus protectant fungicide tank mix on surviving plants",
				"Consult a local extension officer for resistance management",
			},
			Nutritional: []string{
				"Foliar calcium and potassium on surviving plants",
			},
			Recovery: []string{
				"Monitor new growth weekly for four weeks",
				"Plant resistant varieties next season",
			},
		},
	},
	models.StageInvalid: {
		Stage:          models.StageInvalid,
		Name:           "Non-diagnostic Image",
		SeverityWeight: 0,
		Symptoms: []string{
			"Not enough leaf tissue visible in the photo",
		},
		Interpretation: "The photo could not be used for diagnosis. Retake it with a single leaf filling most of the frame, in even daylight.",
		Treatment: models.Treatment{
			Immediate: []string{
				"Retake the photo closer to the leaf",
				"Avoid strong shadows and direct glare",
			},
		},
	},
}

// Lookup returns the reference entry for a stage, or the N0 entry for unknown codes.
func Lookup(stage models.Stage) models.DiseaseInfo {
	info, ok := entries[stage]
	if !ok {
		info = entries[models.StageInvalid]
	}
	return clone(info)
}

// LookupCode is Lookup for a raw stage code.
func LookupCode(code string) models.DiseaseInfo {
	stage, _ := models.ParseStage(code)
	return Lookup(stage)
}

// All returns every entry in stage order.
func All() []models.DiseaseInfo {
	out := make([]models.DiseaseInfo, 0, len(models.Stages))
	for _, s := range models.Stages {
		out = append(out, clone(entries[s]))
	}
	return out
}

// clone copies the slices so callers cannot reach the shared table.
func clone(info models.DiseaseInfo) models.DiseaseInfo {
	info.Symptoms = copyStrings(info.Symptoms)
	t := &info.Treatment
	t.Immediate = copyStrings(t.Immediate)
	t.Preventive = copyStrings(t.Preventive)
	t.Cultural = copyStrings(t.Cultural)
	t.Chemical = copyStrings(t.Chemical)
	t.Nutritional = copyStrings(t.Nutritional)
	t.Recovery = copyStrings(t.Recovery)
	return info
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
