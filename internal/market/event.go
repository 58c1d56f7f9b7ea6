package market

import "maps"

// EventKind enumerates everything a user can do to the bot.
type EventKind int

const (
	EventStart EventKind = iota + 1
	EventCancel
	EventDone
	EventMenu
	EventServer
	EventCategory
	EventType
	EventAttach
	EventConfirm
	EventText
	EventPhoto
	EventSearchServer
	EventSearchCategory
	EventSearchRun
	EventSearchNav
	EventDeleteOwn
	EventGrantVIP
	EventForceDelete
	EventPin
	EventUnpin
	EventUnknownCommand
)

var eventNames = map[EventKind]string{
	EventStart:          "start",
	EventCancel:         "cancel",
	EventDone:           "done",
	EventMenu:           "menu",
	EventServer:         "server",
	EventCategory:       "category",
	EventType:           "type",
	EventAttach:         "attach",
	EventConfirm:        "confirm",
	EventText:           "text",
	EventPhoto:          "photo",
	EventSearchServer:   "search_server",
	EventSearchCategory: "search_category",
	EventSearchRun:      "search_run",
	EventSearchNav:      "search_nav",
	EventDeleteOwn:      "delete_own",
	EventGrantVIP:       "grant_vip",
	EventForceDelete:    "force_delete",
	EventPin:            "pin",
	EventUnpin:          "unpin",
	EventUnknownCommand: "unknown_command",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// Kinds returns every defined event kind in declaration order.
func Kinds() []EventKind {
	out := make([]EventKind, 0, len(eventNames))
	for k := EventStart; k <= EventUnknownCommand; k++ {
		out = append(out, k)
	}
	return out
}

// Event is one inbound user action.
type Event struct {
	Kind   EventKind
	UserID int64
	// Handle is the sender's username without '@', possibly empty.
	Handle string
	// Data is the callback payload, the message text, the photo file id
	// or the command argument, depending on Kind.
	Data string
}

// Callback unique keys used on inline buttons.
const (
	CallbackMenu           = "menu"
	CallbackServer         = "server"
	CallbackCategory       = "category"
	CallbackType           = "type"
	CallbackAttach         = "attach"
	CallbackConfirm        = "confirm"
	CallbackSearchServer   = "search_server"
	CallbackSearchCategory = "search_category"
	CallbackSearchRun      = "search_do"
	CallbackSearchNav      = "search_nav"
)

var callbackKinds = map[string]EventKind{
	CallbackMenu:           EventMenu,
	CallbackServer:         EventServer,
	CallbackCategory:       EventCategory,
	CallbackType:           EventType,
	CallbackAttach:         EventAttach,
	CallbackConfirm:        EventConfirm,
	CallbackSearchServer:   EventSearchServer,
	CallbackSearchCategory: EventSearchCategory,
	CallbackSearchRun:      EventSearchRun,
	CallbackSearchNav:      EventSearchNav,
}

// CallbackKinds maps every callback unique key to its event kind.
func CallbackKinds() map[string]EventKind {
	return maps.Clone(callbackKinds)
}

// CommandSpec describes a slash command and the event it produces.
type CommandSpec struct {
	Name        string
	Kind        EventKind
	Description string
	Aliases     []string
	// Privileged commands are unlisted and, by default, open to anyone who
	// knows their name.
	Privileged bool
}

// Commands lists the slash commands understood by the bot.
var Commands = []CommandSpec{
	{Name: "/start", Kind: EventStart, Description: "Main menu"},
	{Name: "/cancel", Kind: EventCancel, Description: "Cancel the current form"},
	{Name: "/done", Kind: EventDone, Description: "Finish attaching photos", Aliases: []string{"/skip"}},
	{Name: "/del", Kind: EventDeleteOwn, Description: "Delete your listing: /del <number>"},
	{Name: "/vipp", Kind: EventGrantVIP, Description: "Grant VIP", Privileged: true},
	{Name: "/deleted", Kind: EventForceDelete, Description: "Delete any listing", Privileged: true},
	{Name: "/zakrepp", Kind: EventPin, Description: "Pin a listing", Privileged: true},
	{Name: "/unzakrep", Kind: EventUnpin, Description: "Unpin a listing", Privileged: true},
}

// Button is an inline button: a callback when URL is empty, a link otherwise.
type Button struct {
	Text   string
	Unique string
	Data   string
	URL    string
}

// Reply is one outgoing message. Text goes first with its buttons, then
// Photos as an album.
type Reply struct {
	Text    string
	Buttons [][]Button
	Photos  []string
	// Edit replaces the message whose button was pressed instead of
	// sending a new one.
	Edit bool
}
