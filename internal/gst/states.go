package gst

// gstStateCodes maps a billing province code to its two-digit GST state code.
var gstStateCodes = map[string]string{
	"AP": "37", "AR": "12", "AS": "18", "BR": "10", "CG": "22", "DL": "07", "GJ": "24",
	"HR": "06", "HP": "02", "JK": "01", "JH": "20", "KA": "29", "KL": "32", "MP": "23",
	"MH": "27", "MN": "14", "ML": "17", "MZ": "15", "NL": "13", "OD": "21", "PB": "03",
	"RJ": "08", "SK": "11", "TN": "33", "TS": "36", "TR": "16", "UP": "09", "UK": "05", "WB": "19",
}

// StateCode resolves a province code to its GST state code, "N/A" when the
// province is unknown or missing.
func StateCode(provinceCode string) string {
	if code, ok := gstStateCodes[provinceCode]; ok {
		return code
	}
	return "N/A"
}
