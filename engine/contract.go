package engine

// The target application's markup is an unversioned, opaque contract: the
// same visual widget shows up under at least three different layout patterns
// depending on which screen rendered it, and generated ids change between
// deployments. Every selector here is therefore a candidate list that the
// engine probes in order, never a single source of truth.

// Section (collapsible panel) contract.
var (
	// SectionContainers lists the selectors tried, in order, to enumerate the
	// top-level collapsible panels of the form.
	SectionContainers = []string{
		".ui-accordion .ui-accordion-tab",
		"p-accordiontab",
		".panel.panel-default",
	}

	// SectionHeader finds the clickable header inside a section container.
	SectionHeaders = []string{
		".ui-accordion-header",
		".panel-heading",
		"a[role='tab']",
	}

	// SectionActiveClasses mark an expanded section.
	SectionActiveClasses = []string{
		"ui-state-active",
		"ui-accordion-header-active",
		"in",
	}

	// SectionContent holds the rendered body of an expanded section.
	SectionContents = []string{
		".ui-accordion-content",
		".panel-body",
		"[role='tabpanel']",
	}
)

// Field-group and form-row contract, used by the heuristic locator.
var (
	FieldGroupContainers = []string{
		"fieldset",
		".ui-fieldset",
		"p-fieldset",
	}

	FieldGroupLegends = []string{
		"legend",
		".ui-fieldset-legend",
	}

	FormRowContainers = []string{
		".ui-g",
		".form-group",
		".row",
	}

	LabelNodes = []string{
		"label",
		".ui-outputlabel",
		"span.label-text",
	}

	RowAncestors = []string{
		".ui-g",
		".row",
		".form-group",
		".col-12",
	}
)

// Dropdown (custom selector widget) contract.
var (
	DropdownTriggers = []string{
		".ui-dropdown-trigger",
		".ui-dropdown-label",
		".ui-selectonemenu-trigger",
	}

	DropdownPanels = []string{
		".ui-dropdown-panel",
		".ui-selectonemenu-panel",
		".ui-dropdown-items-wrapper",
	}

	DropdownItems = []string{
		"li.ui-dropdown-item",
		"li.ui-selectonemenu-item",
		"li[role='option']",
	}

	DropdownFilterInputs = []string{
		"input.ui-dropdown-filter",
		"input[role='searchbox']",
	}

	DropdownScrollers = []string{
		".ui-dropdown-items-wrapper",
		"cdk-virtual-scroll-viewport",
	}
)

// Modal dialog contract.
var (
	ModalContainers = []string{
		".ui-dialog",
		"p-dialog .ui-dialog",
		".modal-dialog",
	}

	ModalTitles = []string{
		".ui-dialog-title",
		".ui-dialog-titlebar",
		".modal-title",
	}

	ModalSearchButtons = []string{
		"button[title*='Buscar']",
		".ui-dialog button.btn-buscar",
	}

	ModalResultCounters = []string{
		".ui-paginator-current",
		".registros-encontrados",
		".ui-datatable-footer",
	}

	ModalRowSelects = []string{
		"a[title*='Seleccionar']",
		"button[title*='Seleccionar']",
		".ui-datatable tbody .ui-row-toggler",
	}
)
