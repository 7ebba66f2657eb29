package marketplace

// Selectors of the marketplace UI. The site exposes no API; these are the
// contract with its rendered pages.
const (
	emailField        = "#email"
	passwordField     = "#password"
	loginSubmit       = `div.login-leftcol form button[type="submit"]`
	loggedInMarker    = `a[href*="logout"]`
	authenticatedPath = "/user/dashboard"

	versionField     = "#version"
	releasedAtField  = "#released_at"
	descriptionField = "#description"
	listingSubmit    = `div.listing-edit-container form button[type="submit"]`

	versionsContainer = "div#versions"
	versionRows       = "div#versions tr"
	versionLabels     = "div#versions tr strong"
	rowActionControls = "a, button"
	deleteControlText = "Delete"

	compatCheckboxes = `input[name="versionIds[]"]`
	compatSubmit     = `div#compatibility button[type="submit"]`

	// The site reports results either as an in-place banner or after a full
	// navigation; these match both bootstrap alert variants it renders.
	successBanner = ".alert-success"
	errorBanner   = ".alert-danger"
)

// versionLabelPrefix precedes every version cell in the listing table.
const versionLabelPrefix = "Version "
