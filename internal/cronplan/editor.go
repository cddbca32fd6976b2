package cronplan

// Mode identifies which editing surface currently owns the expression.
type Mode string

const (
	// ModeEasy means the structured schedule is the source of truth and the
	// cron string is derived from it on every mutation.
	ModeEasy Mode = "easy"
	// ModeAdvanced means the raw cron string is the source of truth and the
	// structured schedule is not kept in sync until the user switches back.
	ModeAdvanced Mode = "advanced"
)

// CustomPatternMessage is shown when a raw expression cannot be represented
// by the structured editor.
const CustomPatternMessage = "This expression uses a custom pattern not supported by the schedule builder."

// Editor mediates between the structured "easy" editor and the free-text
// "advanced" cron editor bound to a single expression value. It is a plain
// synchronous state holder; the caller persists the expression.
type Editor struct {
	mode     Mode
	schedule Schedule
	expr     string
	errMsg   string
}

// NewEditor creates an editor for an existing expression. If the expression
// parses into the recognized subset the editor opens in easy mode with the
// canonical serialization; otherwise it opens in advanced mode so a custom
// expression is never misrepresented by the structured form.
func NewEditor(expr string) *Editor {
	if expr == "" {
		s := DefaultSchedule()
		return &Editor{mode: ModeEasy, schedule: s, expr: s.Build()}
	}
	if s, ok := Parse(expr); ok {
		return &Editor{mode: ModeEasy, schedule: *s, expr: s.Build()}
	}
	return &Editor{mode: ModeAdvanced, schedule: DefaultSchedule(), expr: expr}
}

// Mode returns the current editing mode.
func (e *Editor) Mode() Mode { return e.mode }

// Expression returns the current cron expression.
func (e *Editor) Expression() string { return e.expr }

// Schedule returns the current structured schedule. It is only meaningful
// while the editor is in easy mode.
func (e *Editor) Schedule() Schedule { return e.schedule }

// ErrorMessage returns the user-facing message from the last refused mode
// switch, or "" if there is none.
func (e *Editor) ErrorMessage() string { return e.errMsg }

// SwitchToAdvanced moves to free-text editing. It always succeeds: every
// structured schedule has a valid cron serialization.
func (e *Editor) SwitchToAdvanced() {
	if e.mode == ModeEasy {
		e.expr = e.schedule.Build()
	}
	e.mode = ModeAdvanced
	e.errMsg = ""
}

// SwitchToEasy attempts to adopt the current expression into the structured
// editor. On success it switches modes and clears any error; on failure the
// editor stays in advanced mode and reports the custom-pattern message.
func (e *Editor) SwitchToEasy() bool {
	s, ok := Parse(e.expr)
	if !ok {
		e.errMsg = CustomPatternMessage
		return false
	}
	e.schedule = *s
	e.expr = s.Build()
	e.mode = ModeEasy
	e.errMsg = ""
	return true
}

// SetExpression replaces the raw expression while in advanced mode.
func (e *Editor) SetExpression(expr string) {
	if e.mode != ModeAdvanced {
		return
	}
	e.expr = expr
	e.errMsg = ""
}

// SetFrequency changes the recurrence pattern. Switching away from weekly
// or monthly resets the corresponding selection so a stale choice never
// leaks into a newly built expression.
func (e *Editor) SetFrequency(f Frequency) {
	if e.mode != ModeEasy {
		return
	}
	if e.schedule.Frequency == Weekly && f != Weekly {
		e.schedule.Weekdays = []int{0}
	}
	if e.schedule.Frequency == Monthly && f != Monthly {
		e.schedule.MonthDay = 1
	}
	e.schedule.Frequency = f
	e.rebuild()
}

// SetTime sets the hour and minute of the schedule.
func (e *Editor) SetTime(hour, minute int) {
	if e.mode != ModeEasy {
		return
	}
	e.schedule.Hour = hour
	e.schedule.Minute = minute
	e.rebuild()
}

// ToggleWeekday adds or removes a day from the weekly selection.
func (e *Editor) ToggleWeekday(day int) {
	if e.mode != ModeEasy {
		return
	}
	days := e.schedule.Weekdays
	for i, d := range days {
		if d == day {
			e.schedule.Weekdays = append(days[:i], days[i+1:]...)
			e.rebuild()
			return
		}
	}
	e.schedule.Weekdays = normalizeWeekdays(append(days, day))
	e.rebuild()
}

// SetMonthDay sets the day-of-month for monthly schedules.
func (e *Editor) SetMonthDay(day int) {
	if e.mode != ModeEasy {
		return
	}
	e.schedule.MonthDay = day
	e.rebuild()
}

// rebuild re-serializes the structured schedule into the expression. Easy
// mode is push-model: every mutation immediately refreshes the cron string.
func (e *Editor) rebuild() {
	e.expr = e.schedule.Build()
}
