/*
Copyright © 2024 the GliderNC authors.
This file is part of GliderNC.

GliderNC is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GliderNC is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GliderNC.  If not, see <http://www.gnu.org/licenses/>.
*/

package glidernc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	yaml "gopkg.in/yaml.v3"
)

// overrideFile is the site-local YAML document supplying literal
// values for config-overridable global attributes. It is searched in
// the installation etc directory and in the mission directory; the
// mission copy wins.
const overrideFile = "NODC.yml"

// GlobalAttrSpec describes one declared global attribute: whether a
// site configuration file may override it, the rule applied when the
// master set has no value yet, and the rule applied on conflict.
type GlobalAttrSpec struct {
	ConfigOverridable bool
	Init              MergeRule
	Merge             MergeRule
}

// declaredGlobals is the closed set of global attributes the engine
// writes. Attributes outside this table are dropped (with a warning)
// during merges; file loaders will not return them.
var declaredGlobals = map[string]GlobalAttrSpec{
	"project":         {true, RuleCopy, RuleStet}, // mission title
	"title":           {true, RuleCopy, RuleStet},
	"summary":         {true, RuleCopy, RuleStet},
	"comment":         {true, RuleCopy, RuleStet},
	"acknowledgment":  {true, RuleCopy, RuleStet},
	"institution":     {true, RuleCopy, RuleStet},
	"creator_name":    {true, RuleCopy, RuleStet},
	"creator_email":   {true, RuleCopy, RuleStet},
	"creator_url":     {true, RuleCopy, RuleStet},
	"contributor_name": {true, RuleCopy, RuleStet},
	"contributor_role": {true, RuleCopy, RuleStet},
	"disclaimer":      {true, RuleCopy, RuleStet},
	"source":          {true, RuleCopy, RuleIdentical}, // NODC required: the vessel id
	"references":      {true, RuleCopy, RuleStet},
	"processing_level": {false, RuleCopy, RuleStet},
	"license":         {true, RuleCopy, RuleStet},
	"platform":        {false, RuleCopy, RuleIdentical}, // name of the platform variable
	"wmo_id":          {false, RuleCopy, RuleIdentical},
	"instrument":      {false, RuleCopy, RuleStet},
	"glider":          {false, RuleCopy, RuleIdentical},
	"platform_id":     {false, RuleCopy, RuleIdentical}, // string SGXXX glider id
	"mission":         {false, RuleCopy, RuleStet},

	// per dive only; never survive aggregation
	"dive_number": {false, RuleRemove, RuleRemove},
	"start_time":  {false, RuleRemove, RuleRemove},

	"seaglider_software_version": {false, RuleCopy, RuleIdentical},

	// mission aggregators assign these directly
	"file_data_type": {false, RuleRemove, RuleRemove},
	"binwidth":       {false, RuleRemove, RuleRemove},
	"file_version":   {false, RuleRemove, RuleRemove},

	// WriteGlobals or callers assign these directly
	"history":                    {false, RuleRemove, RuleRemove},
	"base_station_version":       {false, RuleRemove, RuleRemove},
	"base_station_micro_version": {false, RuleRemove, RuleRemove},
	"quality_control_version":    {false, RuleRemove, RuleRemove},
	"Conventions":                {false, RuleRemove, RuleRemove},

	"standard_name_vocabulary": {false, RuleCopy, RuleIdentical},
	"magcalfile_contents":      {false, RuleCopy, RuleStet},
	"auxmagcalfile_contents":   {false, RuleCopy, RuleStet},

	// attribute conventions used to index datasets for NODC
	"Metadata_Conventions":  {false, RuleCopy, RuleIdentical},
	"featureType":           {false, RuleCopy, RuleIdentical},
	"cdm_data_type":         {false, RuleCopy, RuleIdentical},
	"nodc_template_version": {false, RuleCopy, RuleIdentical},
	"keywords_vocabulary":   {false, RuleCopy, RuleIdentical},
	"keywords":              {true, RuleCopy, RuleStet},
	"sea_name":              {true, RuleCopy, RuleStet},

	"date_created":  {false, RuleRemove, RuleRemove},
	"date_modified": {false, RuleRemove, RuleRemove},
	"date_issued":   {false, RuleRemove, RuleRemove},

	"publisher_name":  {true, RuleCopy, RuleStet},
	"publisher_email": {true, RuleCopy, RuleStet},
	"publisher_url":   {true, RuleCopy, RuleStet},

	"uuid":             {false, RuleRemove, RuleRemove},
	"id":               {false, RuleRemove, RuleRemove},
	"naming_authority": {false, RuleCopy, RuleIdentical},

	"time_coverage_start":      {false, RuleCopy, RuleEarliestDate},
	"time_coverage_end":        {false, RuleCopy, RuleLatestDate},
	"time_coverage_resolution": {false, RuleCopy, RuleIdentical},

	// geospatial bounding box of the dataset
	"geospatial_lat_min":            {false, RuleCopy, RuleMin},
	"geospatial_lat_max":            {false, RuleCopy, RuleMax},
	"geospatial_lat_units":          {false, RuleCopy, RuleIdentical},
	"geospatial_lat_resolution":     {false, RuleCopy, RuleIdentical},
	"geospatial_lon_min":            {false, RuleCopy, RuleMin},
	"geospatial_lon_max":            {false, RuleCopy, RuleMax},
	"geospatial_lon_units":          {false, RuleCopy, RuleIdentical},
	"geospatial_lon_resolution":     {false, RuleCopy, RuleIdentical},
	"geospatial_vertical_min":       {false, RuleCopy, RuleMin},
	"geospatial_vertical_max":       {false, RuleCopy, RuleMax},
	"geospatial_vertical_units":     {false, RuleCopy, RuleIdentical},
	"geospatial_vertical_resolution": {false, RuleCopy, RuleIdentical},
	"geospatial_vertical_positive":  {false, RuleCopy, RuleIdentical},
}

// GlobalAttrs is the registry of declared global attributes plus the
// merge engine that folds per-file attribute sets into mission-level
// aggregates.
type GlobalAttrs struct {
	log   logrus.FieldLogger
	specs map[string]GlobalAttrSpec
}

// NewGlobalAttrs returns the registry holding the declared
// global-attribute table.
func NewGlobalAttrs(log logrus.FieldLogger) *GlobalAttrs {
	return &GlobalAttrs{log: log, specs: declaredGlobals}
}

// Lookup returns the declaration for a global attribute name.
func (g *GlobalAttrs) Lookup(name string) (GlobalAttrSpec, bool) {
	s, ok := g.specs[name]
	return s, ok
}

// Merge folds the slave attribute set into master. For each slave
// key the declared per-key rules decide the surviving value:
// undeclared keys are dropped with a warning, keys new to the master
// go through the init rule, conflicting keys through the merge rule.
// Only master is mutated.
func (g *GlobalAttrs) Merge(master, slave map[string]interface{}) {
	for _, key := range sortKeys(slave) {
		spec, ok := g.specs[key]
		if !ok {
			g.log.Warnf("Unknown NC global attribute during merge '%s' -- skipping", key)
			spec = GlobalAttrSpec{Init: RuleRemove, Merge: RuleRemove}
		}
		var v interface{}
		if masterValue, ok := master[key]; ok {
			v = spec.Merge.resolve(g.log, key, masterValue, slave[key])
		} else {
			v = spec.Init.resolve(g.log, key, nil, slave[key])
		}
		if removed(v) {
			delete(master, key)
		} else {
			master[key] = v
		}
	}
}

// MergeInstruments folds a slave instrument map into the master map,
// warning when the two disagree about an instrument already present.
func (g *GlobalAttrs) MergeInstruments(master, slave map[string]interface{}) {
	for _, key := range sortKeys(slave) {
		var v interface{}
		if masterValue, ok := master[key]; ok {
			v = RuleIdentical.resolve(g.log, key, masterValue, slave[key])
		} else {
			v = RuleCopy.resolve(g.log, key, nil, slave[key])
		}
		if removed(v) {
			delete(master, key)
		} else {
			master[key] = v
		}
	}
}

// ISO8601 renders an epoch time in the metadata standard format.
func ISO8601(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// WriteGlobals stamps the protocol-mandated attributes into globals,
// applies any site-local overrides, and records every surviving key
// as a file-level attribute on b. Unknown keys are written anyway,
// with a warning, to avoid silent data loss.
func (g *GlobalAttrs) WriteGlobals(b *FileBuilder, globals map[string]interface{}, opts *Options) {
	now := ISO8601(time.Now())

	// Reverse-DNS naming of the naming authority is recommended.
	globals["naming_authority"] = NamingAuthority
	globals["keywords_vocabulary"] = "NASA/GCMD Earth Science Keywords Version 6.0.0.0"
	globals["keywords"] = "Water Temperature, Conductivity, Salinity, Density, Potential Density, Potential Temperature"
	globals["processing_level"] = QualityControlVersion
	globals["references"] = "http://data.nodc.noaa.gov/accession/0092291"

	// date_created is set once; --force reprocessing keeps it.
	if _, ok := globals["date_created"]; !ok {
		globals["date_created"] = now
	}
	globals["date_modified"] = now
	globals["uuid"] = uuid.New().String()
	globals["base_station_version"] = Version
	globals["base_station_micro_version"] = 0
	globals["quality_control_version"] = QualityControlVersion
	globals["Metadata_Conventions"] = MetadataConventions
	globals["Conventions"] = VariableConventions
	globals["standard_name_vocabulary"] = VariableConventions
	globals["featureType"] = "trajectory"
	globals["cdm_data_type"] = "Trajectory" // required ACDD
	globals["nodc_template_version"] = NODCTemplateVersion

	g.applyOverrides(globals, opts)

	for _, key := range sortKeys(globals) {
		if _, ok := g.specs[key]; !ok {
			g.log.Warnf("Unknown NC global attribute '%s'", key)
			// fall through and write it anyway
		}
		b.SetGlobal(key, globals[key])
	}
}

// applyOverrides merges the site and mission override files, mission
// last, and applies values for config-overridable declared
// attributes. Parse problems are logged and skipped; processing
// continues with whatever could be merged.
func (g *GlobalAttrs) applyOverrides(globals map[string]interface{}, opts *Options) {
	if opts == nil {
		return
	}
	merged := map[string]interface{}{}
	for _, dir := range []string{opts.EtcDir, opts.MissionDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, overrideFile)
		contents, err := os.ReadFile(path)
		if err != nil {
			g.log.Infof("%s does not exist - skipping", path)
			continue
		}
		overrides := map[string]interface{}{}
		if err := yaml.Unmarshal(contents, &overrides); err != nil {
			g.log.Errorf("Could not process %s - skipping: %v", path, err)
			continue
		}
		for k, v := range overrides {
			merged[k] = v
		}
	}
	for _, k := range sortKeys(merged) {
		spec, ok := g.specs[k]
		if !ok {
			g.log.Warnf("Unknown NC global attribute '%s' in %s -- skipping", k, overrideFile)
			continue
		}
		if !spec.ConfigOverridable {
			g.log.Warnf("NC global attribute '%s' may not be overridden by %s -- skipping", k, overrideFile)
			continue
		}
		g.log.Debugf("Updating %s to %v", k, merged[k])
		globals[k] = merged[k]
	}
}

// CheckOverrides validates the override files dive processing would
// consult: both must parse, and every key must name a declared,
// config-overridable attribute. Unlike applyOverrides, which logs
// and limps on, problems here are returned so operators can fix the
// file before the next dive comes up.
func (g *GlobalAttrs) CheckOverrides(opts *Options) error {
	if opts == nil {
		return nil
	}
	var problems []string
	for _, dir := range []string{opts.EtcDir, opts.MissionDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, overrideFile)
		contents, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		overrides := map[string]interface{}{}
		if err := yaml.Unmarshal(contents, &overrides); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		for _, k := range sortKeys(overrides) {
			spec, ok := g.specs[k]
			if !ok {
				problems = append(problems, fmt.Sprintf("%s: unknown attribute '%s'", path, k))
			} else if !spec.ConfigOverridable {
				problems = append(problems, fmt.Sprintf("%s: attribute '%s' may not be overridden", path, k))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("problems in override files: %s", strings.Join(problems, "; "))
	}
	return nil
}

// oxfordComma joins words with commas and a final "and".
func oxfordComma(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	case 2:
		return words[0] + " and " + words[1]
	}
	return strings.Join(words[:len(words)-1], ", ") + ", and " + words[len(words)-1]
}

// FormNODCTitle builds the accession title NODC requests for a
// per-dive file. dataKinds maps instrument names to the kind of data
// they produce. The word "deployed" is load bearing: NODC's automated
// processing names the accession from the text up to and including
// it.
func FormNODCTitle(instruments []string, dataKinds map[string]string, globals map[string]interface{}, missionTitle string) string {
	kinds := []string{"physical"}
	for _, instrument := range instruments {
		kind, ok := dataKinds[instrument]
		if !ok {
			continue
		}
		seen := false
		for _, k := range kinds {
			if k == kind {
				seen = true
				break
			}
		}
		if !seen {
			kinds = append(kinds, kind)
		}
	}
	seaName := ""
	if s, ok := globals["sea_name"]; ok {
		seaName = fmt.Sprintf(" in the %s", cast.ToString(s))
	}
	start := time.Unix(cast.ToInt64(globals["start_time"]), 0).UTC()
	kindPhrase := oxfordComma(kinds)
	kindPhrase = strings.ToUpper(kindPhrase[:1]) + kindPhrase[1:]
	return fmt.Sprintf("%s data collected from Seaglider %s during %s%s deployed on %s",
		kindPhrase, cast.ToString(globals["platform_id"]), missionTitle, seaName,
		start.Format("2006-01-02"))
}
