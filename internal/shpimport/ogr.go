package shpimport

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/jackc/pgx/v5"
)

func HaveOGR2OGR() bool {
	_, err := exec.LookPath("ogr2ogr")
	return err == nil
}

func haveOGRInfo() bool {
	_, err := exec.LookPath("ogrinfo")
	return err == nil
}

// pgConnString converts a Postgres URL/DSN into the "PG:" datasource string
// ogr2ogr expects.
func pgConnString(databaseURL string) (string, error) {
	cfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	parts := []string{
		"dbname=" + cfg.Database,
		"host=" + cfg.Host,
		fmt.Sprintf("port=%d", cfg.Port),
		"user=" + cfg.User,
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+cfg.Password)
	}
	return "PG:" + strings.Join(parts, " "), nil
}

// importWithOGR2OGR stages the shapefile through GDAL: reprojected to
// EPSG:4326, promoted to MultiPolygon, geometry column standardized so the
// normalization step finds it.
func importWithOGR2OGR(ctx context.Context, databaseURL, shapefile, tmpTable string) error {
	pg, err := pgConnString(databaseURL)
	if err != nil {
		return err
	}

	args := []string{
		"-f", "PostgreSQL",
		pg,
		shapefile,
		"-nln", tmpTable,
		"-nlt", "MULTIPOLYGON",
		"-lco", "GEOMETRY_NAME=geometry",
		"-lco", "FID=ogc_fid",
		"-lco", "PRECISION=NO",
		"-t_srs", "EPSG:4326",
		"-overwrite",
	}

	log.Printf("importing with ogr2ogr -> %s", tmpTable)
	cmd := exec.CommandContext(ctx, "ogr2ogr", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ogr2ogr: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// dbfSchemaViaOGRInfo asks `ogrinfo -so` for the layer summary and parses the
// attribute field list out of it. Best effort: returns an empty map when
// ogrinfo is missing or its output is unparseable.
func dbfSchemaViaOGRInfo(ctx context.Context, shapefile, layerName string) map[string]string {
	if !haveOGRInfo() {
		return map[string]string{}
	}
	cmd := exec.CommandContext(ctx, "ogrinfo", "-so", shapefile, layerName)
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Printf("ogrinfo schema parse skipped: %v", err)
		return map[string]string{}
	}
	return parseOGRInfoFields(string(out))
}

// parseOGRInfoFields extracts "field: Type (width.precision)" lines from
// ogrinfo summary output.
func parseOGRInfoFields(out string) map[string]string {
	schema := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		s := strings.TrimSpace(line)
		if s == "" ||
			strings.Contains(s, "Layer name:") ||
			strings.Contains(s, "Geometry:") ||
			strings.Contains(s, "Feature Count:") ||
			strings.Contains(s, "no version information available") {
			continue
		}
		colon := strings.Index(s, ":")
		paren := strings.Index(s, "(")
		if colon < 0 || paren < colon {
			continue
		}
		name := strings.TrimSpace(s[:colon])
		ftype := strings.TrimSpace(strings.SplitN(s[colon+1:], "(", 2)[0])
		if name == "" || ftype == "" {
			continue
		}
		switch strings.ToLower(name) {
		case "extent", "fid":
			continue
		}
		schema[name] = ftype
	}
	return schema
}
