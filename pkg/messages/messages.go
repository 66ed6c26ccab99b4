// Package messages is the catalog of user-facing strings for the queue
// assistant. Some prompts carry several phrasings; one is picked at random so
// repeated turns do not sound canned.
package messages

import (
	"fmt"
	"math/rand"
	"strings"
)

const VendorName = "Qwatch"

// pick indexes into a variant list. Swapped out in tests for determinism.
var pick = func(n int) int { return rand.Intn(n) }

// SetPicker replaces the variant selector and returns a restore function.
func SetPicker(f func(n int) int) func() {
	previous := pick
	pick = f
	return func() { pick = previous }
}

func oneOf(options ...string) string {
	return options[pick(len(options))]
}

// FamiliarWelcome greets a user who has talked to the assistant before.
func FamiliarWelcome() string {
	return oneOf(
		fmt.Sprintf("Hi, this is %s.", VendorName),
		fmt.Sprintf("Hello, this is %s.", VendorName),
	)
}

// IntroductoryWelcome greets a user in one of their first conversations.
func IntroductoryWelcome() string {
	return fmt.Sprintf("%s In this app, you can line up virtually, saving you time.", FamiliarWelcome())
}

// DefaultListMessage accompanies a list or carousel when no other bubble exists.
func DefaultListMessage() string {
	return "Here are your options:"
}

func Position(phone string, num int) string {
	return fmt.Sprintf("%s is number %d in line.", phone, num)
}

func LastInLine() string {
	return "This is the last person in line."
}

func NotInLine(phone string) string {
	return fmt.Sprintf("%s was not in line.", phone)
}

func NoOneInLine() string {
	return "There is no one in line."
}

// ComeNow invites a customer straight in when the line is empty.
func ComeNow() string {
	return fmt.Sprintf("%s Please come now.", NoOneInLine())
}

func PeopleInLine(length int) string {
	if length == 1 {
		return "There is 1 person in line."
	}
	return fmt.Sprintf("There are %d people in line.", length)
}

func OfferToJoinLine(length int) string {
	return fmt.Sprintf("%s Would you like to get in line?", PeopleInLine(length))
}

func RemovedFromLine(phone string) string {
	return fmt.Sprintf("%s has been removed from the line.", phone)
}

func NoPhoneProvided() string {
	return "I need a phone number to do that."
}

// NotifyAction tells a customer how they will hear back.
func NotifyAction(phone string) string {
	return fmt.Sprintf("You will receive a call at %s when it is almost your turn.", phone)
}

// Notify tells staff which customer to call next.
func Notify(phone string) string {
	return fmt.Sprintf("Call %s to notify them it's their turn.", phone)
}

func AskStore() string {
	return "Which store are you in?"
}

func ListStore() string {
	return "Here is a list of stores you can choose from:"
}

func AlreadyInUse(phone string) string {
	return fmt.Sprintf("%s is already in use. Please use another number.", phone)
}

func UpdatePhoneSuccess(phone string) string {
	return fmt.Sprintf("Successfully changed phone number to %s", phone)
}

func StoreSet(name string) string {
	return fmt.Sprintf("Your store has been set to %s", name)
}

func InvalidStore() string {
	return "Please select from the provided list."
}

func CustomerOrStaff() string {
	return "Are you a customer or staff?"
}

// Apology is the terminal reply when handling a request fails.
func Apology() string {
	return "Sorry, I'm having trouble handling your request at the moment."
}

// Suggestion chip titles.

func SgnCheckLine() string     { return "Check line" }
func SgnRemoveFromLine() string { return "Remove" }
func SgnYes() string           { return "Yes" }
func SgnNo() string            { return "Nope" }
func SgnUpdatePhone() string   { return "Update phone" }
func SgnAddNewCustomer() string { return "Add" }
func SgnNextCustomer() string  { return "Next customer" }
func SgnCustomer() string      { return "Customer" }
func SgnStaff() string         { return "Staff" }

// ConcatenateOptionsList turns option titles into one spoken sentence.
//
// ConcatenateOptionsList([]string{"apple", "orange", "banana"}) ==
// "Your options are apple, orange and banana."
func ConcatenateOptionsList(options []string) string {
	joined := ConcatenateMessagesList(options)
	if joined == "" {
		return ""
	}
	return fmt.Sprintf("Your options are %s.", joined)
}

// ConcatenateMessagesList joins strings into a readable list: the first n-1
// comma separated, the last joined with "and".
func ConcatenateMessagesList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return fmt.Sprintf("%s and %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
