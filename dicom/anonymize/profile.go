package anonymize

import "github.com/codeninja55/go-radx/dicom/tag"

// defaultProfile is the project's built-in default anonymization policy: a
// static table of (Tag -> Action), not code branches, so that it documents
// the policy directly and round-trips through the JSON schema in schema.go
// without special-casing.
//
// Coverage follows DICOM PS3.15 Annex E Table E.1-1 (Application Level
// Confidentiality Profile Attributes), translated onto this project's
// closed eight-action set: where Annex E calls for a dummy replacement
// value, a Replace action supplies it; where it calls for "clean" free text
// with preserved clinical meaning, this table uses Empty, since Clean isn't
// one of the project's actions and the resolver's final fallback
// (Unchanged) would otherwise leak the original text.
var defaultProfile = map[tag.Tag]Action{
	// Patient Module
	tag.PatientName:              Empty(),
	tag.PatientID:                Hash(nil),
	tag.PatientBirthDate:         Remove(),
	tag.PatientBirthTime:         Remove(),
	tag.PatientSex:               Keep(),
	tag.PatientAge:               Keep(),
	tag.PatientSize:              Keep(),
	tag.PatientWeight:            Keep(),
	tag.OtherPatientIDs:          Remove(),
	tag.OtherPatientNames:        Remove(),
	tag.PatientBirthName:         Remove(),
	tag.PatientMotherBirthName:   Remove(),
	tag.MedicalRecordLocator:     Remove(),
	tag.EthnicGroup:              Remove(),
	tag.PatientComments:          Remove(),
	tag.PatientSpeciesDescription: Remove(),
	tag.PatientBreedDescription:  Remove(),
	tag.ResponsiblePerson:        Remove(),
	tag.ResponsibleOrganization:  Remove(),
	tag.PatientIdentityRemoved:   Replace("YES"),
	tag.PatientSexNeutered:       Remove(),
	tag.AdditionalPatientHistory: Remove(),
	tag.Occupation:               Remove(),
	tag.MilitaryRank:             Remove(),
	tag.BranchOfService:          Remove(),
	tag.CountryOfResidence:       Remove(),
	tag.RegionOfResidence:        Remove(),

	// General Study Module
	tag.StudyInstanceUID:                   HashUID(),
	tag.StudyDate:                          HashDate(),
	tag.StudyTime:                          Remove(),
	tag.ReferringPhysicianName:             Empty(),
	tag.ReferringPhysicianAddress:          Remove(),
	tag.ReferringPhysicianTelephoneNumbers: Remove(),
	tag.StudyID:                            Empty(),
	tag.AccessionNumber:                    Hash(nil),
	tag.IssuerOfAccessionNumberSequence:    Remove(),
	tag.StudyDescription:                   Empty(),
	tag.PhysiciansOfRecord:                 Remove(),
	tag.NameOfPhysiciansReadingStudy:       Remove(),
	tag.RequestingPhysician:                Remove(),
	tag.ConsultingPhysicianName:            Remove(),
	tag.AdmittingDiagnosesDescription:      Remove(),
	tag.ReferencedStudySequence:            Keep(),

	// General Series Module
	tag.SeriesInstanceUID:      HashUID(),
	tag.SeriesNumber:           Keep(),
	tag.SeriesDate:             HashDate(),
	tag.SeriesTime:             Remove(),
	tag.SeriesDescription:      Empty(),
	tag.PerformingPhysicianName: Empty(),
	tag.OperatorsName:          Empty(),
	tag.ProtocolName:           Empty(),
	// Kept (not removed) so attributes nested inside it are still subject
	// to their own per-tag rules during sequence recursion, rather than
	// disappearing as a unit.
	tag.RequestAttributesSequence: Keep(),

	// General Equipment Module
	tag.InstitutionName:             Remove(),
	tag.InstitutionAddress:          Remove(),
	tag.InstitutionalDepartmentName: Remove(),
	tag.StationName:                 Remove(),
	tag.DeviceSerialNumber:          Remove(),

	// General Image / SOP Common
	tag.SOPInstanceUID:        HashUID(),
	tag.AcquisitionDate:       HashDate(),
	tag.AcquisitionTime:       Remove(),
	tag.AcquisitionDateTime:   Remove(),
	tag.ContentDate:           HashDate(),
	tag.ContentTime:           Remove(),
	tag.InstanceCreationDate:  HashDate(),
	tag.InstanceCreationTime:  Remove(),
	tag.InstanceCreatorUID:    Remove(),
	tag.DerivationDescription: Empty(),
	tag.InstanceNumber:        Keep(),
	tag.TimezoneOffsetFromUTC: Remove(),
	tag.DigitalSignaturesSequence: Remove(),

	// Additional identifying attributes
	tag.ImageComments:               Remove(),
	tag.FrameComments:               Remove(),
	tag.RequestingService:           Remove(),
	tag.CurrentPatientLocation:      Remove(),
	tag.PatientInstitutionResidence: Remove(),
	tag.ModifiedAttributesSequence:  Remove(),
	tag.OriginalAttributesSequence:  Remove(),
	tag.PersonName:                  Remove(),
	tag.PersonAddress:               Remove(),
	tag.PersonTelephoneNumbers:      Remove(),
	tag.TextComments:                Remove(),
	tag.TextString:                  Remove(),

	// Procedure step timing
	tag.PerformedProcedureStepStartDate:   HashDate(),
	tag.PerformedProcedureStepStartTime:   Remove(),
	tag.PerformedProcedureStepEndDate:     HashDate(),
	tag.PerformedProcedureStepEndTime:     Remove(),
	tag.PerformedProcedureStepDescription: Empty(),
	tag.RequestedProcedureDescription:     Empty(),
}

// DefaultProfile returns a copy of the built-in default profile table. The
// config builder does not copy it into TagActions: Config.Resolve consults
// the table after explicit overrides and bulk policies, and
// EffectiveTagActions merges the overrides onto this copy.
func DefaultProfile() map[tag.Tag]Action {
	out := make(map[tag.Tag]Action, len(defaultProfile))
	for t, a := range defaultProfile {
		out[t] = a
	}
	return out
}
