package taxonomy

import "strings"

// privilegeCategories maps manager privilege classes to categories.
// Classes not listed here carry no category hint.
var privilegeCategories = map[string]Category{
	"system":    CategoryCore,
	"security":  CategoryCore,
	"log":       CategoryCore,
	"verbose":   CategoryCore,
	"command":   CategoryCore,
	"config":    CategoryCore,
	"call":      CategoryCall,
	"dtmf":      CategoryCall,
	"dialplan":  CategoryCall,
	"cdr":       CategoryCall,
	"originate": CategoryCall,
	"agent":     CategoryQueue,
	"agi":       CategoryAgi,
	"reporting": CategoryMisc,
	"user":      CategoryMisc,
	"message":   CategoryMisc,
}

// CategoryFromPrivilege derives a category from an event's Privilege header,
// a comma separated class list such as "call,all". The first class with a
// mapping wins. It is a hint for events missing from the taxonomy and never
// overrides a registered kind.
func CategoryFromPrivilege(privilege string) (Category, bool) {
	for _, class := range strings.Split(privilege, ",") {
		class = strings.ToLower(strings.TrimSpace(class))
		if c, ok := privilegeCategories[class]; ok {
			return c, true
		}
	}
	return CategoryUnknown, false
}
