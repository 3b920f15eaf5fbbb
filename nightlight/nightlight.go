package nightlight

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/enyium/semreg"
)

// Color temperature range the feature accepts, in Kelvin, as of late 2023.
const (
	MinNightColorTemp uint16 = 1200
	MaxNightColorTemp uint16 = 6500

	WarmestNightColorTemp = MinNightColorTemp
	ColdestNightColorTemp = MaxNightColorTemp

	// DefaultNightColorTemp is what the feature applies when no explicit
	// temperature is stored. Found by alternating between no stored value
	// and concrete ones until no difference could be perceived anymore.
	DefaultNightColorTemp uint16 = 4000
)

// DefaultWarmth is the warmth factor equivalent of DefaultNightColorTemp.
const DefaultWarmth = 1 - float64(DefaultNightColorTemp-MinNightColorTemp)/float64(MaxNightColorTemp-MinNightColorTemp)

// ReasonableInitDelay is the preview pulse duration Init should be given
// when no better information is available. A common animation duration.
const ReasonableInitDelay = 200 * time.Millisecond

// ExpirationTimeout is how long after loading an instance can still be
// written. Kept short to narrow the window in which another writer can
// slip in between the read and the write.
const ExpirationTimeout = 1000 * time.Millisecond

// ValueID distinguishes the two store values the feature lives in.
type ValueID int

const (
	StateValue ValueID = iota
	SettingsValue
)

func (id ValueID) String() string {
	if id == SettingsValue {
		return "settings"
	}
	return "state"
}

const (
	storeKeyPrefix = `SOFTWARE\Microsoft\Windows\CurrentVersion\CloudStore\Store\DefaultAccount\Current\`

	stateKeyPath = storeKeyPrefix +
		`default$windows.data.bluelightreduction.bluelightreductionstate\windows.data.bluelightreduction.bluelightreductionstate`
	settingsKeyPath = storeKeyPrefix +
		`default$windows.data.bluelightreduction.settings\windows.data.bluelightreduction.settings`

	dataValueName = "Data"
)

// ValuePath returns where the value lives in the store, under the
// current-user alias root.
func (id ValueID) ValuePath() semreg.ValuePath {
	key := stateKeyPath
	if id == SettingsValue {
		key = settingsKeyPath
	}
	return semreg.ValuePath{
		KeyPath: semreg.KeyPath{Root: semreg.RootCurrentUser, Path: key},
		Name:    dataValueName,
	}
}

// Bytes is the raw contents of both feature values, read together so they
// describe one consistent moment.
type Bytes struct {
	State    []byte
	Settings []byte
}

// ReadBytes reads both feature values from the store.
func ReadBytes(st semreg.Store) (Bytes, error) {
	state, err := semreg.ReadBinaryValue(st, StateValue.ValuePath())
	if err != nil {
		return Bytes{}, err
	}
	settings, err := semreg.ReadBinaryValue(st, SettingsValue.ValuePath())
	if err != nil {
		return Bytes{}, err
	}
	return Bytes{State: state, Settings: settings}, nil
}

// OfValue returns the bytes of one of the two values.
func (b Bytes) OfValue(id ValueID) []byte {
	if id == SettingsValue {
		return b.Settings
	}
	return b.State
}

// Data errors the write path reports. Competing pending changes are
// *IrreconcilableError values.
var (
	// ErrExpired means too much time passed between loading and writing.
	// Instances expire to enforce read-mutate-write without delays, which
	// keeps the race window against other writers small.
	ErrExpired = errors.New("instance expired: too long between reading and writing")

	// ErrNightPreviewInProgress means preview mode was already active when
	// the caller tried to change something the preview interferes with.
	// Another actor, like the official settings page while its temperature
	// slider is held, is mid-transition; interfering now makes adverse
	// effects likely.
	ErrNightPreviewInProgress = errors.New("night preview in progress by another actor")
)

// CompetingProps names a pair of property groups whose combined pending
// changes the feature cannot apply in one go.
type CompetingProps int

const (
	StateVsStateChangingSettings CompetingProps = iota
	StateVsNightPreview
	StateChangingSettingsVsNightPreview
)

func (p CompetingProps) String() string {
	switch p {
	case StateVsNightPreview:
		return "state vs. night preview"
	case StateChangingSettingsVsNightPreview:
		return "state-changing settings vs. night preview"
	default:
		return "state vs. state-changing settings"
	}
}

// IrreconcilableError reports a combination of pending changes that the
// feature would apply only partially, or not at all, until the next
// log-off.
type IrreconcilableError struct {
	Competing CompetingProps
}

func (e *IrreconcilableError) Error() string {
	return "changed properties are irreconcilable with other properties: " + e.Competing.String()
}

// NightLight combines the feature's state and settings values into one
// mutable view. Load an instance, call setters, then call Write before
// ExpirationTimeout passes; Write serializes only the values whose
// properties de facto changed and refuses combinations the feature cannot
// apply consistently.
type NightLight struct {
	state    *RawState
	settings *RawSettings

	sunsetToSunrisePossible bool
	sunsetToSunriseKnown    bool

	uses12HourClock bool
	loadedAt        time.Time
	strictness      semreg.Strictness

	store   semreg.Store
	written bool
}

// Load reads both values from the store and parses them. In lenient mode,
// values missing from the store yield the Fallback instance instead of an
// error.
func Load(st semreg.Store, strictness semreg.Strictness) (*NightLight, error) {
	bytes, err := ReadBytes(st)
	if err != nil {
		if semreg.IsNotFound(err) && strictness.IsLenient() {
			return Fallback(st), nil
		}
		return nil, err
	}

	nl, err := FromBytes(bytes, strictness)
	if err != nil {
		return nil, err
	}
	nl.store = st
	nl.sunsetToSunrisePossible, nl.sunsetToSunriseKnown = SunsetToSunrisePossible(st)
	return nl, nil
}

// FromBytes parses an instance out of already-read bytes. The result is
// display-only: it has no store to write to or to read the location
// consent from, so the sunset-to-sunrise precondition stays unknown.
func FromBytes(b Bytes, strictness semreg.Strictness) (*NightLight, error) {
	state, err := DecodeState(b.State, strictness)
	if err != nil {
		return nil, err
	}
	settings, err := DecodeSettings(b.Settings, strictness)
	if err != nil {
		return nil, err
	}
	return &NightLight{
		state:      state,
		settings:   settings,
		loadedAt:   time.Now(),
		strictness: strictness,
	}, nil
}

// Fallback returns the instance assumed when the store holds no feature
// values yet, for example because the user never touched the official
// settings. Writing it creates the values.
func Fallback(st semreg.Store) *NightLight {
	now := time.Now()
	nl := &NightLight{
		state:      FallbackState(now),
		settings:   FallbackSettings(now),
		loadedAt:   now,
		strictness: semreg.Lenient,
		store:      st,
	}
	if st != nil {
		nl.sunsetToSunrisePossible, nl.sunsetToSunriseKnown = SunsetToSunrisePossible(st)
	}
	return nl
}

const locationConsentKeyPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\CapabilityAccessManager\ConsentStore\location`

// SunsetToSunrisePossible reports whether the sunset-to-sunrise schedule
// can take effect, which requires location consent for the machine, the
// user's apps and the user's desktop apps. A failed read leaves the answer
// unknown.
func SunsetToSunrisePossible(st semreg.Store) (possible, known bool) {
	paths := []semreg.ValuePath{
		{KeyPath: semreg.KeyPath{Root: semreg.RootLocalMachine, Path: locationConsentKeyPath}, Name: "Value"},
		{KeyPath: semreg.KeyPath{Root: semreg.RootCurrentUser, Path: locationConsentKeyPath}, Name: "Value"},
		{KeyPath: semreg.KeyPath{Root: semreg.RootCurrentUser, Path: locationConsentKeyPath + `\NonPackaged`}, Name: "Value"},
	}
	for _, path := range paths {
		consent, err := semreg.ReadStringValue(st, path)
		if err != nil {
			return false, false
		}
		if consent != "Allow" {
			return false, true
		}
	}
	return true, true
}

// Active reports whether night time color temperature is in effect right
// now, be it chosen manually or by schedule.
func (nl *NightLight) Active() bool {
	return nl.state.Active.Current()
}

func (nl *NightLight) SetActive(active bool) {
	nl.mutable().state.Active.Set(active)
}

// TransitionCause says which actor last toggled the active state.
func (nl *NightLight) TransitionCause() TransitionCause {
	return nl.state.TransitionCause
}

// StateModifiedFiletime is the state value's modification timestamp as a
// FILETIME, always greater than zero.
func (nl *NightLight) StateModifiedFiletime() int64 {
	return nl.state.ModifiedFiletime
}

// LatestPossibleSettingsModifiedEpochSecs is the settings value's
// modification timestamp, or somewhat later when many changes happened in
// quick succession, like while the official temperature slider is dragged.
func (nl *NightLight) LatestPossibleSettingsModifiedEpochSecs() uint32 {
	return nl.settings.PrologueEpochSecs
}

func (nl *NightLight) ScheduleActive() bool {
	return nl.settings.ScheduleActive.Current()
}

func (nl *NightLight) SetScheduleActive(active bool) {
	nl.mutable().settings.ScheduleActive.Set(active)
}

// ScheduleType is the configured schedule type. The one really honored
// also depends on location consent; see EffectiveScheduleType.
func (nl *NightLight) ScheduleType() ScheduleType {
	return nl.settings.ScheduleType.Current()
}

// SetScheduleType configures the schedule type. Choosing sunset-to-sunrise
// while location consent is missing is not an error; the explicit schedule
// stays effective until consent is granted.
func (nl *NightLight) SetScheduleType(t ScheduleType) {
	nl.mutable().settings.ScheduleType.Set(t)
}

// EffectiveScheduleType is the schedule type the feature really honors:
// sunset-to-sunrise only when the location precondition is known to hold,
// the explicit schedule in every other case.
func (nl *NightLight) EffectiveScheduleType() ScheduleType {
	if nl.ScheduleType() == ScheduleSunsetToSunrise && nl.sunsetToSunriseKnown && nl.sunsetToSunrisePossible {
		return ScheduleSunsetToSunrise
	}
	return ScheduleExplicit
}

// SunsetToSunrisePossible returns the location precondition cached at load
// time.
func (nl *NightLight) SunsetToSunrisePossible() (possible, known bool) {
	return nl.sunsetToSunrisePossible, nl.sunsetToSunriseKnown
}

// SunsetToSunrise is the sun-based window the feature has computed, read
// back from the settings value. Absent when every stored hour and minute
// was zero.
func (nl *NightLight) SunsetToSunrise() (ClockTimeFrame, bool) {
	f := nl.settings.SunsetToSunrise
	return f, !(f.Start.IsMidnight() && f.End.IsMidnight())
}

// ScheduledNight is the window of the explicit schedule.
func (nl *NightLight) ScheduledNight() ClockTimeFrame {
	return nl.settings.ScheduledNight.Current()
}

// SetScheduledNight accepts any window exact to the minute, even though
// the official time pickers display 15-minute steps. Equal start and end
// mean a zero-length night.
func (nl *NightLight) SetScheduledNight(f ClockTimeFrame) {
	nl.mutable().settings.ScheduledNight.Set(f)
}

// NightColorTemp is the stored night color temperature in Kelvin. It may
// lie outside the constant range if a newer feature version changed the
// bounds. Absent means the feature applies its default.
func (nl *NightLight) NightColorTemp() (temp uint16, present bool) {
	t := nl.settings.NightColorTemp.Current()
	return t, t != 0
}

// NightColorTempInRange is the color temperature clamped into the constant
// range.
func (nl *NightLight) NightColorTempInRange() (temp uint16, present bool) {
	t, present := nl.NightColorTemp()
	if !present {
		return 0, false
	}
	return min(max(t, MinNightColorTemp), MaxNightColorTemp), true
}

// SetNightColorTemp stores a temperature in Kelvin; the feature corrects
// values outside its range on its own. Zero removes the stored value and
// makes the feature apply its default.
func (nl *NightLight) SetNightColorTemp(temp uint16) {
	nl.mutable().settings.NightColorTemp.Set(temp)
}

// Warmth expresses the color temperature as the factor from 0 to 1 behind
// the official strength slider. Absent like NightColorTemp.
func (nl *NightLight) Warmth() (float64, bool) {
	t, present := nl.NightColorTempInRange()
	if !present {
		return 0, false
	}
	return 1 - float64(t-MinNightColorTemp)/float64(MaxNightColorTemp-MinNightColorTemp), true
}

// SetWarmth stores the temperature equivalent to a warmth factor from 0
// to 1. Steps in the upper range are perceived as more intense; callers
// wanting perceptual uniformity can pre-shape the factor with a gamma
// curve. Panics on NaN.
func (nl *NightLight) SetWarmth(warmth float64) {
	if math.IsNaN(warmth) {
		panic("warmth is NaN")
	}
	precise := float64(MaxNightColorTemp-MinNightColorTemp)*(1-warmth) + float64(MinNightColorTemp)
	nl.SetNightColorTemp(uint16(min(max(math.Round(precise), 0), math.MaxUint16)))
}

// NightPreviewActive reports whether preview mode is in effect: a hard
// switch to night color temperature instead of a smooth transition. The
// official settings hold it active while the temperature slider is moved.
func (nl *NightLight) NightPreviewActive() bool {
	return nl.settings.NightPreviewActive.Current()
}

func (nl *NightLight) SetNightPreviewActive(active bool) {
	nl.mutable().settings.NightPreviewActive.Set(active)
}

// SetUses12HourClock switches clock time rendering in String, DebugString
// and JSON. Display only.
func (nl *NightLight) SetUses12HourClock(uses12HourClock bool) {
	nl.uses12HourClock = uses12HourClock
}

func (nl *NightLight) mutable() *NightLight {
	if nl.written {
		panic("nightlight: instance already written")
	}
	return nl
}

// Write serializes the values whose properties changed and stores them,
// which immediately applies them. The instance is spent afterwards, even
// when Write fails; further setter or Write calls panic.
//
// Settings are written before state: changing state-changing settings may
// make the feature itself rewrite the state value, and writing state last
// keeps that rewrite from superseding the caller's.
func (nl *NightLight) Write() error {
	if nl.written {
		panic("nightlight: instance already written")
	}
	if nl.store == nil {
		panic("nightlight: instance not loaded from a store")
	}
	nl.written = true

	if time.Since(nl.loadedAt) > ExpirationTimeout {
		return ErrExpired
	}
	stateChanged, settingsChanged, err := nl.verify()
	if err != nil {
		return err
	}

	now := time.Now()
	var stateBytes, settingsBytes []byte
	if stateChanged {
		// Only the feature itself writes schedule-caused transitions.
		nl.state.TransitionCause = CauseManual
		stateBytes = nl.state.Encode(now)
	}
	if settingsChanged {
		settingsBytes = nl.settings.Encode(now)
	}

	if settingsBytes != nil {
		err := nl.store.WriteValue(SettingsValue.ValuePath(), semreg.BinaryValue(settingsBytes))
		if err != nil {
			return err
		}
	}
	if stateBytes != nil {
		err := nl.store.WriteValue(StateValue.ValuePath(), semreg.BinaryValue(stateBytes))
		if err != nil {
			return err
		}
	}
	return nil
}

// verify applies the consistency rules and reports which of the two
// values changed.
func (nl *NightLight) verify() (stateChanged, settingsChanged bool, err error) {
	activeChanged := nl.state.Active.Changed()

	scheduleActiveChanged := nl.settings.ScheduleActive.Changed()
	scheduleTypeChanged := nl.settings.ScheduleType.Changed()
	scheduledNightChanged := nl.settings.ScheduledNight.Changed()
	nightColorTempChanged := nl.settings.NightColorTemp.Changed()
	nightPreviewActiveChanged := nl.settings.NightPreviewActive.Changed()

	stateChanged = activeChanged
	settingsChanged = scheduleActiveChanged || scheduleTypeChanged || scheduledNightChanged ||
		nightColorTempChanged || nightPreviewActiveChanged

	// Settings the feature may react to by autonomously rewriting the
	// state value.
	stateChangingSettingsChanged := scheduleActiveChanged || scheduleTypeChanged || scheduledNightChanged

	if stateChanged && stateChangingSettingsChanged {
		return false, false, &IrreconcilableError{StateVsStateChangingSettings}
	}

	previewTurnedOnOrHeld := nl.settings.NightPreviewActive.Current()
	if (previewTurnedOnOrHeld || nightPreviewActiveChanged) && (stateChanged || stateChangingSettingsChanged) {
		if nightPreviewActiveChanged {
			if stateChanged {
				return false, false, &IrreconcilableError{StateVsNightPreview}
			}
			return false, false, &IrreconcilableError{StateChangingSettingsVsNightPreview}
		}
		// Preview unchanged but active: another actor is mid-transition.
		return false, false, ErrNightPreviewInProgress
	}

	return stateChanged, settingsChanged, nil
}

// Delete removes both feature values to reset the feature, which may help
// when they were corrupted and the feature became unusable. The user
// should restart, or at least log off, afterwards.
func Delete(st semreg.Store) error {
	// Settings first; this order made the fewest problems so far.
	if err := st.DeleteValue(SettingsValue.ValuePath()); err != nil {
		return err
	}
	return st.DeleteValue(StateValue.ValuePath())
}

// Export writes both feature values to w in registry-editor format.
func Export(st semreg.Store, w io.Writer) error {
	return semreg.ExportValues(st, []semreg.ValuePath{
		StateValue.ValuePath(),
		SettingsValue.ValuePath(),
	}, w)
}

// Monitor watches both feature values for changes by other actors.
func Monitor(st semreg.WatchableStore, opt semreg.MonitorOptions) (*semreg.Monitor[ValueID], error) {
	return semreg.NewMonitor(st, []semreg.MonitorEntry[ValueID]{
		{ID: StateValue, Path: StateValue.ValuePath()},
		{ID: SettingsValue, Path: SettingsValue.ValuePath()},
	}, opt)
}

// Init performs the actions necessary after log-on to make later color
// temperature changes effective without toggling one of the boolean
// states; it also restores a warm temperature after a screen was turned
// back on. Concretely it pulses preview mode: on, wait for delay, off. To
// keep the pulse invisible while the feature is inactive, the temperature
// is parked at the coldest value for its duration. Nothing is written
// when preview mode is already active.
//
// Normally delay should be ReasonableInitDelay. alsoWaitAfter repeats the
// wait after the last write, for callers that follow up with another
// write immediately; the feature engine missing a value in close
// succession can wedge it until the next log-off.
func Init(st semreg.Store, delay time.Duration, alsoWaitAfter bool, strictness semreg.Strictness) error {
	nl, err := Load(st, strictness)
	if err != nil {
		return err
	}
	if nl.NightPreviewActive() {
		return nil
	}

	previousTemp, hadTemp := uint16(0), false
	if !nl.Active() {
		previousTemp, hadTemp = nl.NightColorTemp()
		nl.SetNightColorTemp(ColdestNightColorTemp) // make the pulse invisible
	}
	nl.SetNightPreviewActive(true)
	if err := nl.Write(); err != nil {
		return err
	}

	time.Sleep(delay)

	nl, err = Load(st, strictness)
	if err != nil {
		return err
	}
	if hadTemp {
		nl.SetNightColorTemp(previousTemp)
	}
	nl.SetNightPreviewActive(false)
	if err := nl.Write(); err != nil {
		return err
	}

	if alsoWaitAfter {
		time.Sleep(delay)
	}
	return nil
}

// jsonDoc is the document JSON renders. Nullable fields are pointers so
// absent properties serialize as null.
type jsonDoc struct {
	Active                 bool     `json:"active"`
	TransitionCause        string   `json:"transitionCause"`
	StateModified          string   `json:"stateModifiedTimestamp"`
	LatestSettingsModified string   `json:"latestPossibleSettingsModifiedTimestamp"`
	ScheduleActive         bool     `json:"scheduleActive"`
	ScheduleType           string   `json:"scheduleType"`
	SunToSunPossible       *bool    `json:"sunsetToSunrisePossible"`
	EffectiveScheduleType  string   `json:"effectiveScheduleType"`
	SunsetToSunrise        *string  `json:"sunsetToSunrise"`
	ScheduledNight         string   `json:"scheduledNight"`
	NightColorTemp         *uint16  `json:"nightColorTemp"`
	Warmth                 *float64 `json:"warmth"`
	NightPreviewActive     bool     `json:"nightPreviewActive"`
}

// JSON renders the current configuration as a compact JSON document for
// consumption by software.
func (nl *NightLight) JSON() string {
	doc := jsonDoc{
		Active:                 nl.Active(),
		TransitionCause:        nl.TransitionCause().String(),
		StateModified:          filetimeISO(nl.StateModifiedFiletime()),
		LatestSettingsModified: epochSecsISO(nl.LatestPossibleSettingsModifiedEpochSecs()),
		ScheduleActive:         nl.ScheduleActive(),
		ScheduleType:           nl.ScheduleType().String(),
		EffectiveScheduleType:  nl.EffectiveScheduleType().String(),
		ScheduledNight:         nl.ScheduledNight().Format(nl.uses12HourClock),
		NightPreviewActive:     nl.NightPreviewActive(),
	}
	if possible, known := nl.SunsetToSunrisePossible(); known {
		doc.SunToSunPossible = &possible
	}
	if frame, present := nl.SunsetToSunrise(); present {
		s := frame.Format(nl.uses12HourClock)
		doc.SunsetToSunrise = &s
	}
	if temp, present := nl.NightColorTemp(); present {
		doc.NightColorTemp = &temp
	}
	if warmth, present := nl.Warmth(); present {
		doc.Warmth = &warmth
	}

	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// String renders the configuration as a user-facing table.
func (nl *NightLight) String() string {
	yesNo := func(flag bool) string {
		if flag {
			return "yes"
		}
		return "no"
	}
	parenthesizeIf := func(flag bool, s string) string {
		if flag {
			return "(" + s + ")"
		}
		return s
	}

	effective := nl.EffectiveScheduleType()

	warmthText := fmt.Sprintf("default (should be %.2f)", DefaultWarmth)
	if warmth, present := nl.Warmth(); present {
		warmthText = fmt.Sprintf("%.2f", warmth)
	}
	kelvinText := fmt.Sprintf("default (should be %d)", DefaultNightColorTemp)
	if temp, present := nl.NightColorTemp(); present {
		kelvinText = fmt.Sprintf("%d", temp)
	}
	sunText := "N/A"
	if frame, present := nl.SunsetToSunrise(); present {
		sunText = frame.Format(nl.uses12HourClock)
	}

	modifiedLayout := "2006-01-02, 15:04:05"
	if nl.uses12HourClock {
		modifiedLayout = "2006-01-02, 03:04:05 pm"
	}
	latestModified := max(
		nl.StateModifiedFiletime(),
		semreg.Filetime(time.Unix(int64(nl.LatestPossibleSettingsModifiedEpochSecs()), 0)),
	)

	return semreg.FormatTable([]semreg.TableRow{
		{Name: "Active", Value: yesNo(nl.Active())},
		{Name: "Transition Cause", Value: nl.TransitionCause().String()},
		{},
		{Name: "Warmth", Value: warmthText},
		{Name: "Kelvin", Value: kelvinText},
		{Name: "Preview Active", Value: yesNo(nl.NightPreviewActive())},
		{},
		{Name: "Schedule Active", Value: yesNo(nl.ScheduleActive())},
		{Name: "Schedule Type (Effective)", Value: scheduleTypeText(effective)},
		{Name: "Sunset to Sunrise", Value: parenthesizeIf(effective == ScheduleExplicit, sunText)},
		{Name: "Explicit Night", Value: parenthesizeIf(effective == ScheduleSunsetToSunrise, nl.ScheduledNight().Format(nl.uses12HourClock))},
		{},
		{Name: "Modified (Latest Possible)", Value: semreg.FiletimeTime(latestModified).Local().Format(modifiedLayout)},
	})
}

// DebugString renders every raw property, including the ones String
// processes or hides, for diagnosing the store values themselves.
func (nl *NightLight) DebugString() string {
	sunText := "none"
	if frame, present := nl.SunsetToSunrise(); present {
		sunText = frame.Format(nl.uses12HourClock)
	}
	tempText := "none"
	if temp, present := nl.NightColorTemp(); present {
		tempText = fmt.Sprintf("%d", temp)
	}
	warmthText := "none"
	if warmth, present := nl.Warmth(); present {
		warmthText = fmt.Sprintf("%v", warmth)
	}
	possibleText := "unknown"
	if possible, known := nl.SunsetToSunrisePossible(); known {
		possibleText = yesNoText(possible)
	}

	return semreg.FormatTable([]semreg.TableRow{
		{Name: "prologue timestamp (state)", Value: epochSecsISO(nl.state.PrologueEpochSecs)},
		{Name: "active (state)", Value: yesNoText(nl.Active())},
		{Name: "transition cause (state)", Value: nl.TransitionCause().String()},
		{Name: "modified-FILETIME (state)", Value: filetimeISO(nl.StateModifiedFiletime())},
		{},
		{Name: "prologue timestamp (settings)", Value: epochSecsISO(nl.settings.PrologueEpochSecs)},
		{Name: "schedule active (settings)", Value: yesNoText(nl.ScheduleActive())},
		{Name: "schedule type (settings)", Value: nl.ScheduleType().String()},
		{Name: "sunset-to-sunrise possible (other)", Value: possibleText},
		{Name: "effective schedule type (settings & other)", Value: nl.EffectiveScheduleType().String()},
		{Name: "sunset to sunrise (settings)", Value: sunText},
		{Name: "scheduled night (settings)", Value: nl.ScheduledNight().Format(nl.uses12HourClock)},
		{Name: "night color temp. (settings)", Value: tempText},
		{Name: "warmth (settings, processed)", Value: warmthText},
		{Name: "night preview active (settings)", Value: yesNoText(nl.NightPreviewActive())},
		{},
		{Name: "loaded", Value: nl.loadedAt.Local().Format("2006-01-02T15:04:05.000Z07:00")},
		{Name: "strictness", Value: nl.strictness.String()},
	})
}

func yesNoText(flag bool) string {
	if flag {
		return "yes"
	}
	return "no"
}

func scheduleTypeText(t ScheduleType) string {
	if t == ScheduleExplicit {
		return "explicit"
	}
	return "sunset to sunrise"
}

func epochSecsISO(secs uint32) string {
	return time.Unix(int64(secs), 0).Local().Format(time.RFC3339)
}

func filetimeISO(ft int64) string {
	return semreg.FiletimeTime(ft).Local().Format("2006-01-02T15:04:05.0000000-07:00")
}
