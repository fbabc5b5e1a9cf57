package court

// Badminton court (BWF)
//
// Physical Characteristics:
// - Doubles court: 6.10 m x 13.40 m
// - Singles sidelines 0.46 m inside the doubles sidelines
// - Short service lines 1.98 m from the net
// - Doubles long service lines 0.76 m inside each back boundary
// - Center line runs from each short service line to the back boundary

const (
	BadmintonName = "badminton"

	BadmintonWidth        = 6.10
	BadmintonLength       = 13.40
	BadmintonSinglesInset = 0.46
	BadmintonShortService = 1.98
	BadmintonLongService  = 0.76
)

// BadmintonSpec returns the badminton court specification.
func BadmintonSpec() *BaseSpec {
	w, l := BadmintonWidth, BadmintonLength
	net := l / 2
	shortFar, shortNear := net-BadmintonShortService, net+BadmintonShortService
	longFar, longNear := BadmintonLongService, l-BadmintonLongService

	return &BaseSpec{
		SpecName:     BadmintonName,
		WidthMeters:  w,
		LengthMeters: l,
		Horizontal: []Segment{
			{Name: "far back boundary", Start: pt(0, 0), End: pt(w, 0), Pairable: true},
			{Name: "far long service line", Start: pt(0, longFar), End: pt(w, longFar), Pairable: true},
			{Name: "far short service line", Start: pt(0, shortFar), End: pt(w, shortFar), Pairable: true},
			{Name: "near short service line", Start: pt(0, shortNear), End: pt(w, shortNear), Pairable: true},
			{Name: "near long service line", Start: pt(0, longNear), End: pt(w, longNear), Pairable: true},
			{Name: "near back boundary", Start: pt(0, l), End: pt(w, l), Pairable: true},
		},
		Vertical: []Segment{
			{Name: "left doubles sideline", Start: pt(0, 0), End: pt(0, l), Pairable: true},
			{Name: "left singles sideline", Start: pt(BadmintonSinglesInset, 0), End: pt(BadmintonSinglesInset, l), Pairable: true},
			{Name: "far center line", Start: pt(w/2, 0), End: pt(w/2, shortFar)},
			{Name: "near center line", Start: pt(w/2, shortNear), End: pt(w/2, l)},
			{Name: "right singles sideline", Start: pt(w-BadmintonSinglesInset, 0), End: pt(w-BadmintonSinglesInset, l), Pairable: true},
			{Name: "right doubles sideline", Start: pt(w, 0), End: pt(w, l), Pairable: true},
		},
	}
}
