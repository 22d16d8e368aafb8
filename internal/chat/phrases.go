package chat

import "fmt"

var joinPhrases = [...]string{
	"%s hopped into the room!",
	"Welcome %s to the room!",
	"Hey %s, glad to have you here!",
	"Look who's here! It's %s!",
	"Everyone, please welcome %s to the room!",
	"Say hello to %s!",
	"A wild %s appeared!",
	"Guess who's here? It's %s!",
	"Everyone, meet %s!",
	"Let's give a warm welcome to %s!",
	"%s just joined the party!",
	"W in the chat! %s is here!",
	"We hope you enjoy your stay, %s!",
	"Welcome aboard, %s!",
	"Hi %s, hope you brought pizza!",
}

// pickJoinPhrase draws one phrase uniformly and fills in the display name.
func pickJoinPhrase(r Rand, name string) string {
	return fmt.Sprintf(joinPhrases[r.IntN(len(joinPhrases))], name)
}
