package component

// DelayedAction runs Action once Remaining reaches zero. A positive Every
// re-arms the action after each run instead of destroying the entity.
type DelayedAction struct {
	Remaining float64
	Every     float64
	Action    func()
	Label     string
	Runs      int
}

var DelayedActionComponent = NewComponent[DelayedAction]()
