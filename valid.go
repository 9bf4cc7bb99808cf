package cfbf

// Validation controls how strictly Open checks header/FAT/DIFAT
// consistency. Permissive mode repairs minor inconsistencies (e.g. a FAT
// sector not marked FatSect) in place instead of rejecting the file.
type Validation int

const (
	ValidationPermissive Validation = iota
	ValidationStrict
)

func (v Validation) IsStrict() bool {
	return v == ValidationStrict
}
