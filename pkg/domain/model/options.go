package model

import "github.com/safesight-lab/safesight/pkg/domain/types"

// FormOptions are the option lists the dashboard renders for the incident
// report form. Deployments override them via the TOML app config.
type FormOptions struct {
	Categories              []string `toml:"categories" json:"categories"`
	Locations               []string `toml:"locations" json:"locations"`
	PrimaryClassifications  []string `toml:"primary_classifications" json:"primary_classifications"`
	RiskLevels              []string `toml:"risk_levels" json:"risk_levels"`
	Severities              []string `toml:"severities" json:"severities"`
	InjuryCategories        []string `toml:"injury_categories" json:"injury_categories"`
	ActionTimings           []string `toml:"action_timings" json:"action_timings"`
	MaxActionsPerSubmission int      `toml:"max_actions_per_submission" json:"max_actions_per_submission"`
}

// DefaultFormOptions returns the built-in option lists
func DefaultFormOptions() *FormOptions {
	opts := &FormOptions{
		Categories: []string{"Safety", "Environmental", "Process", "Security", "Other"},
		Locations: []string{
			"Canada", "USA", "New Zealand", "Chile", "Trinidad", "Egypt",
			"Brussels", "Vancouver", "Working from Home", "Other",
		},
		PrimaryClassifications: []string{
			"Health and Safety", "Process Safety", "Environmental",
			"Security", "Transportation", "Other",
		},
		ActionTimings:           []string{"<30 days", "30-90 days", ">90 days"},
		MaxActionsPerSubmission: 15,
	}
	for _, r := range types.AllRiskLevels() {
		opts.RiskLevels = append(opts.RiskLevels, r.String())
	}
	for _, s := range types.AllSeverities() {
		opts.Severities = append(opts.Severities, s.String())
	}
	for _, i := range types.AllInjuryCategories() {
		opts.InjuryCategories = append(opts.InjuryCategories, i.String())
	}
	return opts
}
