package keychain

// featurePointToRecordType maps the vendor's feature-point names to the
// record-type codes used by the Record Decrypter. The vendor endpoint
// identifies keys by feature point, not by raw type code, so this table is
// the single place that bridges the two.
var featurePointToRecordType = map[string]int{
	"osd":          1,
	"home":         2,
	"gimbal":       3,
	"rc":           4,
	"custom":       5,
	"deform":       6,
	"battery":      7,
	"camera":       8,
	"smartbattery": 9,
	"apptip":       11,
	"appwarn":      13,
	"recoverinfo":  14,
	"appgps":       18,
	"jpeg":         23,
}

// RecordTypeForFeaturePoint resolves a feature-point string to its record
// type code. The second return value is false for an unrecognized point;
// Client.Fetch drops such a key, so it surfaces as MissingKey at decrypt
// time, same as if absent.
func RecordTypeForFeaturePoint(fp string) (int, bool) {
	t, ok := featurePointToRecordType[fp]
	return t, ok
}
