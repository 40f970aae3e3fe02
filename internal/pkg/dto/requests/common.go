package requests

type Pagination struct {
	Page     int
	PageSize int
}

// RecordScope limits which stored records a caller may read or change.
// Unrestricted callers are background jobs; ClinicWide callers see every
// record of their clinic; everyone else only sees records they own.
type RecordScope struct {
	ClinicID     string
	OwnerID      string
	ClinicWide   bool
	Unrestricted bool
}

func (s RecordScope) Allows(clinicID, ownerID string) bool {
	if s.Unrestricted {
		return true
	}
	if clinicID != s.ClinicID {
		return false
	}
	return s.ClinicWide || ownerID == s.OwnerID
}
