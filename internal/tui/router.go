package tui

// View names the top-level screens.
type View string

const (
	ViewDashboard     View = "Dashboard"
	ViewPlanner       View = "Planner"
	ViewMyPlans       View = "My Plans"
	ViewReports       View = "Reports"
	ViewAssistant     View = "Assistant"
	ViewConfiguration View = "Configuration"
)

// allViews is the navigation order.
var allViews = []View{
	ViewDashboard,
	ViewPlanner,
	ViewMyPlans,
	ViewReports,
	ViewAssistant,
	ViewConfiguration,
}

// familyViews are the only screens reachable in family mode.
var familyViews = map[View]bool{
	ViewDashboard: true,
	ViewMyPlans:   true,
}

// RouteView resolves which view actually renders. Family mode restricts
// navigation to the dashboard and saved plans; any other request falls back
// to the dashboard. The data underneath is unaffected.
func RouteView(active View, familyMode bool) View {
	if !familyMode {
		return active
	}
	if familyViews[active] {
		return active
	}
	return ViewDashboard
}

// nextView cycles forward through the views reachable in the current mode.
func nextView(active View, familyMode bool) View {
	return cycleView(active, familyMode, 1)
}

// prevView cycles backward.
func prevView(active View, familyMode bool) View {
	return cycleView(active, familyMode, -1)
}

func cycleView(active View, familyMode bool, step int) View {
	idx := 0
	for i, v := range allViews {
		if v == active {
			idx = i
			break
		}
	}
	for range allViews {
		idx = (idx + step + len(allViews)) % len(allViews)
		candidate := allViews[idx]
		if !familyMode || familyViews[candidate] {
			return candidate
		}
	}
	return ViewDashboard
}
