package dialect

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/leftmike/ncpost/errors"
)

// Codes are the words a dialect writes for its operations.
type Codes struct {
	Block             string `code:"block"`
	Program           string `code:"program"`
	ProgramEnd        string `code:"program_end"`
	Stop              string `code:"stop"`
	StopOptional      string `code:"stop_optional"`
	SubCall           string `code:"sub_call"`
	SubEnd            string `code:"sub_end"`
	Imperial          string `code:"imperial"`
	Metric            string `code:"metric"`
	Absolute          string `code:"absolute"`
	Incremental       string `code:"incremental"`
	SetTempOrigin     string `code:"set_temporary_origin"`
	RemoveTempOrigin  string `code:"remove_temporary_origin"`
	PolarOn           string `code:"polar_on"`
	PolarOff          string `code:"polar_off"`
	PlaneXY           string `code:"plane_xy"`
	PlaneXZ           string `code:"plane_xz"`
	PlaneYZ           string `code:"plane_yz"`
	Tool              string `code:"tool"`
	ToolChange        string `code:"tool_change"`
	ToolDefinition    string `code:"tool_definition"`
	WorkOffset        string `code:"work_offset"`
	WorkRotation      string `code:"work_rotation"`
	SpindleCW         string `code:"spindle_cw"`
	SpindleCCW        string `code:"spindle_ccw"`
	SpindleStop       string `code:"spindle_stop"`
	CoolantOff        string `code:"coolant_off"`
	CoolantMist       string `code:"coolant_mist"`
	CoolantFlood      string `code:"coolant_flood"`
	GearOff           string `code:"gear_off"`
	Gear              string `code:"gear"`
	Rapid             string `code:"rapid"`
	Feed              string `code:"feed"`
	ArcCW             string `code:"arc_cw"`
	ArcCCW            string `code:"arc_ccw"`
	Dwell             string `code:"dwell"`
	Drill             string `code:"drill"`
	DrillDwell        string `code:"drill_dwell"`
	PeckDrill         string `code:"peck_drill"`
	EndCannedCycle    string `code:"end_canned_cycle"`
	Tap               string `code:"tap"`
	BoreFeedOut       string `code:"bore_feed_out"`
	BoreSpindleStop   string `code:"bore_spindle_stop"`
	BoreDwellFeedOut  string `code:"bore_dwell_feed_out"`
	ProbeTowards      string `code:"probe_towards"`
	ProbeTowardsQuiet string `code:"probe_towards_quiet"`
	ProbeAway         string `code:"probe_away"`
	ProbeAwayQuiet    string `code:"probe_away_quiet"`
	MachineCoords     string `code:"machine_coordinates"`
	ExactPath         string `code:"exact_path"`
	ExactStop         string `code:"exact_stop"`
	BestSpeed         string `code:"best_speed"`
	TLCOn             string `code:"tlc_on"`
	TLCOff            string `code:"tlc_off"`
	CRCLeft           string `code:"crc_left"`
	CRCRight          string `code:"crc_right"`
	CRCOff            string `code:"crc_off"`
	NurbsBegin        string `code:"nurbs_begin"`
	NurbsEnd          string `code:"nurbs_end"`

	// Workplane 1 selects WorkplaneBase+1, e.g. 53+1 for G54.
	WorkplaneBase int `code:"workplane_base"`
	// Gear 1 selects GearBase+1.
	GearBase int `code:"gear_base"`
}

// Set changes the code named name.
func (c *Codes) Set(name, value string) error {
	v := reflect.ValueOf(c).Elem()
	for i := 0; i < v.NumField(); i += 1 {
		if v.Type().Field(i).Tag.Get("code") != name {
			continue
		}
		f := v.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(value)
		case reflect.Int:
			var n int
			if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
				return errors.Newf("code %s: expected a number, got %q", name, value)
			}
			f.SetInt(int64(n))
		}
		return nil
	}
	return errors.Newf("unknown code: %s", name)
}

// Names returns the names Set accepts, sorted.
func (c *Codes) Names() []string {
	t := reflect.TypeOf(*c)
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i += 1 {
		names = append(names, t.Field(i).Tag.Get("code"))
	}
	sort.Strings(names)
	return names
}

func isoCodes() Codes {
	return Codes{
		Block:             "N",
		Program:           "O",
		ProgramEnd:        "M02",
		Stop:              "M00",
		StopOptional:      "M01",
		SubCall:           "M98",
		SubEnd:            "M99",
		Imperial:          "G20",
		Metric:            "G21",
		Absolute:          "G90",
		Incremental:       "G91",
		SetTempOrigin:     "G92",
		RemoveTempOrigin:  "G92.1",
		PolarOn:           "G16",
		PolarOff:          "G15",
		PlaneXY:           "G17",
		PlaneXZ:           "G18",
		PlaneYZ:           "G19",
		Tool:              "T",
		ToolChange:        "M06",
		ToolDefinition:    "G10 L1",
		WorkOffset:        "G10 L10",
		WorkRotation:      "G10 L2",
		SpindleCW:         "M03",
		SpindleCCW:        "M04",
		SpindleStop:       "M05",
		CoolantOff:        "M09",
		CoolantMist:       "M07",
		CoolantFlood:      "M08",
		Gear:              "M",
		Rapid:             "G00",
		Feed:              "G01",
		ArcCW:             "G02",
		ArcCCW:            "G03",
		Dwell:             "G04",
		Drill:             "G81",
		DrillDwell:        "G82",
		PeckDrill:         "G83",
		EndCannedCycle:    "G80",
		Tap:               "G84",
		BoreFeedOut:       "G85",
		BoreSpindleStop:   "G86",
		BoreDwellFeedOut:  "G89",
		ProbeTowards:      "G38.2",
		ProbeTowardsQuiet: "G38.3",
		ProbeAway:         "G38.4",
		ProbeAwayQuiet:    "G38.5",
		MachineCoords:     "G53",
		ExactPath:         "G61",
		ExactStop:         "G61.1",
		BestSpeed:         "G64",
		TLCOn:             "G43.1",
		TLCOff:            "G49",
		CRCLeft:           "G41",
		CRCRight:          "G42",
		CRCOff:            "G40",
		NurbsBegin:        "G5.2",
		NurbsEnd:          "G5.3",
		WorkplaneBase:     53,
		GearBase:          37,
	}
}
