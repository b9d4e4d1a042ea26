package completion

// scaleNames are the scale types offered after the colon in scale("c:…").
// Multi-word names are displayed with spaces but inserted in colon form.
var scaleNames = []string{
	"major",
	"minor",
	"ionian",
	"dorian",
	"phrygian",
	"lydian",
	"mixolydian",
	"aeolian",
	"locrian",
	"harmonic minor",
	"melodic minor",
	"major pentatonic",
	"minor pentatonic",
	"whole tone",
	"chromatic",
	"blues",
	"bebop",
	"egyptian",
	"hirajoshi",
	"iwato",
	"ritusen",
	"augmented",
	"diminished",
	"dorian b2",
	"lydian augmented",
	"lydian dominant",
	"locrian major",
	"altered",
	"super locrian",
	"harmonic major",
	"double harmonic major",
	"hungarian minor",
	"hungarian major",
	"neopolitan major",
	"neopolitan minor",
	"enigmatic",
	"persian",
	"prometheus",
}

// modeNames are the chord-voicing anchor modes offered before the colon in
// mode("…").
var modeNames = []string{
	"above",
	"below",
	"duck",
	"root",
}
