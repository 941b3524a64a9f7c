package types

// InjuryCategory represents the injury outcome of an incident
type InjuryCategory string

const (
	InjuryNone             InjuryCategory = "No Injury"
	InjuryFirstAid         InjuryCategory = "First Aid"
	InjuryMedicalTreatment InjuryCategory = "Medical Treatment"
	InjuryRestrictedWork   InjuryCategory = "Restricted Work"
	InjuryLostTime         InjuryCategory = "Lost Time"
	InjuryFatality         InjuryCategory = "Fatality"
)

// AllInjuryCategories returns all valid injury categories
func AllInjuryCategories() []InjuryCategory {
	return []InjuryCategory{
		InjuryNone,
		InjuryFirstAid,
		InjuryMedicalTreatment,
		InjuryRestrictedWork,
		InjuryLostTime,
		InjuryFatality,
	}
}

// IsValid checks if the injury category is valid
func (i InjuryCategory) IsValid() bool {
	switch i {
	case InjuryNone, InjuryFirstAid, InjuryMedicalTreatment,
		InjuryRestrictedWork, InjuryLostTime, InjuryFatality:
		return true
	default:
		return false
	}
}

// String returns the string representation of the injury category
func (i InjuryCategory) String() string {
	return string(i)
}
