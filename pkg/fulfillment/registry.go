package fulfillment

import "github.com/FVLArchive/qwatch/pkg/handler"

// Actions the conversational platform routes to this backend. The strings
// match the intent configuration on the platform side and are part of the
// deployed contract.
const (
	ActionWelcome = "input.welcome"

	ActionCustomerCheckLine      = "customer.checkLine"
	ActionCustomerWaitInLine     = "customer.waitInLine"
	ActionCustomerRemoveFromLine = "customer.removeFromLine"
	ActionCustomerUpdatePhone    = "customer.updatePhone"

	ActionStaffAddCustomer    = "staff.addCustomerInLine"
	ActionStaffNextCustomer   = "staff.nextCustomer"
	ActionStaffRemoveCustomer = "staff.removeCustomerFromLine"
	ActionStaffCheckLine      = "staff.checkCurrentLine"

	ActionSelectStaff        = "select.staff"
	ActionSelectCustomer     = "select.customer"
	ActionFinishPushSetup    = "finish.push.setup"
	ActionSelectStore        = "select.store"
	ActionChangeStore        = "change.store"
	ActionEnableNotification = "enable.notification"
)

// Registry maps a platform action to the handler that serves it.
type Registry map[string]handler.Handler

// DefaultRegistry wires every supported action. Staff onboarding goes
// straight to store selection; customers are routed through the push
// permission flow first and land on store selection once that resolves.
func DefaultRegistry() Registry {
	return Registry{
		ActionWelcome: handler.Welcome{},

		ActionCustomerCheckLine:      handler.CheckLine{Role: handler.RoleCustomer},
		ActionCustomerWaitInLine:     handler.AddToLine{Role: handler.RoleCustomer},
		ActionCustomerRemoveFromLine: handler.RemoveFromLine{Role: handler.RoleCustomer},
		ActionCustomerUpdatePhone:    handler.UpdatePhone{},

		ActionStaffAddCustomer:    handler.AddToLine{Role: handler.RoleStaff},
		ActionStaffNextCustomer:   handler.NextInLine{},
		ActionStaffRemoveCustomer: handler.RemoveFromLine{Role: handler.RoleStaff},
		ActionStaffCheckLine:      handler.CheckLine{Role: handler.RoleStaff},

		ActionSelectStaff:        handler.AskForStore{},
		ActionSelectCustomer:     handler.NotificationPermission{},
		ActionFinishPushSetup:    handler.AskForStore{},
		ActionSelectStore:        handler.SelectStore{},
		ActionChangeStore:        handler.AskForStore{},
		ActionEnableNotification: handler.NotificationPermission{},
	}
}
