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

import "math"

// attrs is shorthand for declaring attribute maps below.
type attrs = map[string]interface{}

// staticMetadata declares the variables every deployment carries:
// the vehicle engineering record, the CTD-derived results, GPS
// fixes, guidance-and-control events, and the per-dive scalars.
// Sensor and logger extensions contribute theirs through
// AddContributions.
var staticMetadata = map[string]SchemaEntry{

	// trajectory and per-dive identity
	"trajectory": {
		IncludeInMission: true, Type: TypeInt32,
		Attrs: attrs{
			"description": "Dive number for observations",
			"comment":     "Used to distinguish profiles within a mission",
		},
		DimInfo: []DimRole{TrajectoryInfo},
	},
	"dive_number": {
		Type:  TypeInt32,
		Attrs: attrs{"description": "Dive number for observations"},
	},

	// vehicle engineering record, one point per truck sample
	SGTimeVar: {
		IncludeInMission: true, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "time",
			"axis":          "T",
			"units":         "seconds since 1970-1-1 00:00:00",
			"description":   "Time of the [P] in GMT epoch format",
		},
		DimInfo: []DimRole{SGDataInfo},
	},
	"depth": {
		IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "depth",
			"axis":          "Z",
			"units":         "meters",
			"positive":      "down",
			"description":   "Depth below the surface, corrected for average latitude",
		},
		DimInfo: []DimRole{SGDataInfo},
	},
	"pressure": {
		IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "sea_water_pressure",
			"units":         "dbar",
			"description":   "Uncorrected sea-water pressure",
		},
		DimInfo: []DimRole{SGDataInfo},
	},
	"eng_head": {
		Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "heading",
			"units":         "degrees",
			"description":   "Vehicle heading (magnetic)",
		},
		DimInfo: []DimRole{SGDataInfo},
	},
	"eng_pitchAng": {
		Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "platform_pitch_angle",
			"units":         "degrees",
			"description":   "Vehicle pitch (positive nose up)",
		},
		DimInfo: []DimRole{SGDataInfo},
	},
	"eng_rollAng": {
		Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "platform_roll_angle",
			"units":         "degrees",
			"description":   "Vehicle roll (positive starboard wing down)",
		},
		DimInfo: []DimRole{SGDataInfo},
	},
	"eng_vbdCC": {
		Type: TypeFloat64,
		Attrs: attrs{
			"units":       "cc",
			"description": "VBD position (positive buoyant)",
		},
		DimInfo: []DimRole{SGDataInfo},
	},

	// CTD-derived results, truncated for quality control
	CTDTimeVar: {
		IncludeInMission: true, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "time",
			"axis":          "T",
			"units":         "seconds since 1970-1-1 00:00:00",
			"description":   "Time of CT [P] in GMT epoch format",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"ctd_depth": {
		IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "depth",
			"axis":          "Z",
			"units":         "meters",
			"positive":      "down",
			"description":   "CTD thermistor depth corrected for average latitude",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"ctd_pressure": {
		IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "sea_water_pressure",
			"units":         "dbar",
			"description":   "Pressure at CTD thermistor",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"latitude": {
		IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "latitude",
			"axis":          "Y",
			"units":         "degrees_north",
			"_FillValue":    math.NaN(),
			"description":   "Latitude of the [P] based on hydrodynamic model",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"longitude": {
		IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "longitude",
			"axis":          "X",
			"units":         "degrees_east",
			"_FillValue":    math.NaN(),
			"description":   "Longitude of the [P] based on hydrodynamic model",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"temperature": {
		IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "sea_water_temperature",
			"units":         "degrees_Celsius",
			"_FillValue":    math.NaN(),
			"description":   "Termperature (in situ) corrected for thermistor first-order lag",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"temperature_raw": {
		Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "sea_water_temperature",
			"units":         "degrees_Celsius",
			"_FillValue":    math.NaN(),
			"description":   "Uncorrected temperature (in situ) as reported by instrument",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"temperature_qc": {
		IncludeInMission: true, Type: TypeQC,
		Attrs: attrs{
			"units":       "qc_flag",
			"description": "Whether to trust each temperature value",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"conductivity": {
		IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "sea_water_electrical_conductivity",
			"units":         "S/m",
			"_FillValue":    math.NaN(),
			"description":   "Conductivity corrected for anomalies",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"conductivity_raw": {
		Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "sea_water_electrical_conductivity",
			"units":         "S/m",
			"_FillValue":    math.NaN(),
			"description":   "Uncorrected conductivity as reported by instrument",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"conductivity_qc": {
		IncludeInMission: true, Type: TypeQC,
		Attrs: attrs{
			"units":       "qc_flag",
			"description": "Whether to trust each conductivity value",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"salinity": {
		IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "sea_water_salinity",
			"units":         "PSU",
			"_FillValue":    math.NaN(),
			"description":   "Salinity corrected for thermal-inertia effects",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"salinity_raw": {
		Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "sea_water_salinity",
			"units":         "PSU",
			"_FillValue":    math.NaN(),
			"description":   "Uncorrected salinity derived from uncorrected temperature and conductivity",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},
	"salinity_qc": {
		IncludeInMission: true, Type: TypeQC,
		Attrs: attrs{
			"units":       "qc_flag",
			"description": "Whether to trust each salinity value",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	},

	// GPS fixes bracketing the dive
	"log_gps_time": {
		IncludeInMission: true, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "time",
			"units":         "seconds since 1970-1-1 00:00:00",
			"description":   "GPS fix time in GMT epoch format",
		},
		DimInfo: []DimRole{GPSInfo},
	},
	"log_gps_lat": {
		IncludeInMission: true, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "latitude",
			"units":         "degrees_north",
			"description":   "GPS fix latitude",
		},
		DimInfo: []DimRole{GPSInfo},
	},
	"log_gps_lon": {
		IncludeInMission: true, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "longitude",
			"units":         "degrees_east",
			"description":   "GPS fix longitude",
		},
		DimInfo: []DimRole{GPSInfo},
	},
	"log_gps_qc": {
		Type: TypeQC,
		Attrs: attrs{
			"units":       "qc_flag",
			"description": "Whether to trust each GPS fix",
		},
		DimInfo: []DimRole{GPSInfo},
	},

	// guidance-and-control events and the state transitions within
	"gc_st_secs": {
		IncludeInMission: true, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "time",
			"units":         "seconds since 1970-1-1 00:00:00",
			"description":   "Start of GC in GMT epoch format",
		},
		DimInfo: []DimRole{GCEventInfo},
	},
	"gc_end_secs": {
		Type: TypeFloat64,
		Attrs: attrs{
			"units":       "seconds since 1970-1-1 00:00:00",
			"description": "End of GC in GMT epoch format",
		},
		DimInfo: []DimRole{GCEventInfo},
	},
	"gc_depth": {
		Type:    TypeFloat64,
		Attrs:   attrs{"units": "meters", "description": "Depth at start of GC"},
		DimInfo: []DimRole{GCEventInfo},
	},
	"gc_pitch_ctl": {
		Type:    TypeFloat64,
		Attrs:   attrs{"units": "cm", "description": "Commanded pitch mass position"},
		DimInfo: []DimRole{GCEventInfo},
	},
	"gc_vbd_ctl": {
		Type:    TypeFloat64,
		Attrs:   attrs{"units": "cc", "description": "Commanded VBD position"},
		DimInfo: []DimRole{GCEventInfo},
	},
	"gc_state_secs": {
		IncludeInMission: true, Type: TypeFloat64,
		Attrs: attrs{
			"standard_name": "time",
			"units":         "seconds since 1970-1-1 00:00:00",
			"description":   "Time of GC state transition in GMT epoch format",
		},
		DimInfo: []DimRole{GCStateInfo},
	},
	"gc_state_state": {
		Type:    TypeInt32,
		Attrs:   attrs{"description": "Guidance-and-control state for this transition"},
		DimInfo: []DimRole{GCStateInfo},
	},

	// per-dive scalars
	"glider": {
		Type:  TypeInt32,
		Attrs: attrs{"description": "Seaglider serial number"},
	},
	"platform": {
		Type: TypeChar,
		Attrs: attrs{
			"description": "Which platform this data came from",
		},
	},
	"platform_id": {
		Type:  TypeChar,
		Attrs: attrs{"description": "Seaglider id appended with serial number"},
	},
	"start_time": {
		Type: TypeFloat64,
		Attrs: attrs{
			"units":       "seconds since 1970-1-1 00:00:00",
			"description": "Starting time of the [D] in GMT epoch format",
		},
	},
	"start_latitude": {
		Type:  TypeFloat64,
		Attrs: attrs{"units": "degrees_north", "description": "Latitude at start of the [D]"},
	},
	"start_longitude": {
		Type:  TypeFloat64,
		Attrs: attrs{"units": "degrees_east", "description": "Longitude at start of the [D]"},
	},
	"GPS1_qc": {
		Type: TypeQC,
		Attrs: attrs{
			"units":       "qc_flag",
			"description": "Whether to trust the GPS1 fix",
		},
	},
	"GPS2_qc": {
		Type: TypeQC,
		Attrs: attrs{
			"units":       "qc_flag",
			"description": "Whether to trust the GPS2 fix",
		},
	},
	"GPSE_qc": {
		Type: TypeQC,
		Attrs: attrs{
			"units":       "qc_flag",
			"description": "Whether to trust the final GPS fix",
		},
	},
	"magcalfile_contents": {
		Type:  TypeChar,
		Attrs: attrs{"description": "Contents of the compass calibration file used"},
	},
	"processing_error": {
		Type:  TypeInt32,
		Attrs: attrs{"description": "Whether an error was encountered while processing this dive"},
	},

	// calibration constants carried along for reprocessing
	"sg_cal_id_str": {
		Type:  TypeChar,
		Attrs: attrs{"description": "Three digit vehicle identification string"},
	},
	"sg_cal_mission_title": {
		Type:  TypeChar,
		Attrs: attrs{"description": "Description of mission"},
	},
	"sg_cal_mass": {
		Type:  TypeFloat64,
		Attrs: attrs{"units": "kg", "description": "Mass of the vehicle"},
	},
	"sg_cal_volmax": {
		Type:  TypeFloat64,
		Attrs: attrs{"units": "cc", "description": "Maximum displaced volume of the vehicle"},
	},
	"sg_cal_t_g": {
		Type:  TypeFloat64,
		Attrs: attrs{"description": "Thermistor calibration constant"},
	},
	"sg_cal_calibcomm": {
		Type:  TypeChar,
		Attrs: attrs{"description": "CTD calibration date and serial number"},
	},
}

// BuiltinContributions returns the schema fragments of the sensor
// extensions compiled into this binary, keyed by extension name.
// Deployments without a given instrument pay nothing: the entries
// only describe variables, they do not create them.
func BuiltinContributions() map[string]Contribution {
	return map[string]Contribution{
		"sbe43_ext": {
			SchemaAdditions: map[string]SchemaEntry{
				"sg_cal_calibcomm_oxygen": {
					Type:  TypeChar,
					Attrs: attrs{"description": "Oxygen sensor calibration date and serial number"},
				},
				"eng_sbe43_o2Freq": {
					Type: TypeFloat64,
					Attrs: attrs{
						"units":       "Hz",
						"description": "As reported by the instrument",
					},
					DimInfo: []DimRole{SGDataInfo},
				},
				"dissolved_oxygen_sat": {
					IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
					Attrs: attrs{
						"units":       "micromoles/kg",
						"_FillValue":  math.NaN(),
						"description": "Calculated saturation value for oxygen at sensor",
					},
					DimInfo: []DimRole{CTDResultsInfo},
				},
				"SBE43_dissolved_oxygen": {
					IncludeInMission: true, MissionType: TypeFloat32, Type: TypeFloat64,
					Attrs: attrs{
						"standard_name": "moles_of_oxygen_per_unit_mass_in_sea_water",
						"units":         "micromoles/kg",
						"_FillValue":    math.NaN(),
						"description":   "Dissolved oxygen concentration corrected for salinity",
					},
					DimInfo: []DimRole{CTDResultsInfo},
				},
				"SBE43_dissolved_oxygen_qc": {
					IncludeInMission: true, Type: TypeQC,
					Attrs: attrs{
						"units":       "qc_flag",
						"description": "Whether to trust each dissolved oxygen value",
					},
					DimInfo: []DimRole{CTDResultsInfo},
				},
			},
		},
	}
}
