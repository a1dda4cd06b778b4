package shpimport

import (
	"regexp"
	"strconv"
)

var authorityRe = regexp.MustCompile(`AUTHORITY\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]`)

// DetectEPSG extracts the EPSG code from a .prj WKT string. WKT nests
// AUTHORITY tags (datum, spheroid, units); the last one closes the outermost
// node and names the CRS itself. Returns 0 when no code is found.
func DetectEPSG(prjWKT string) int {
	matches := authorityRe.FindAllStringSubmatch(prjWKT, -1)
	if len(matches) == 0 {
		return 0
	}
	code, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0
	}
	return code
}
