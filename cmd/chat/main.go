// Command chat is a terminal frontend for the chatbot API: log in, pick a
// conversation, and exchange messages with the assistant.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"chatbot-api/backend/internal/client"
)

var stdin = bufio.NewScanner(os.Stdin)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "chatbot API base URL")
	flag.Parse()

	session := client.NewSession(client.DefaultSessionPath())
	c := client.New(*serverURL, session)

	if session.Authenticated() {
		fmt.Printf("Logged in as %s\n", session.Username)
	} else {
		fmt.Println("Not logged in. Use /login or /register.")
	}
	fmt.Println("Commands: /register /login /list /open <id> /new /logout /quit. Anything else is sent as a message.")

	var conversationID uint

	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			return
		}
		line := strings.TrimSpace(stdin.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if line == "/quit" {
				return
			}
			runCommand(c, line, &conversationID)
			continue
		}

		if !session.Authenticated() {
			fmt.Println("Log in first with /login.")
			continue
		}

		// Optimistic local echo with a pending indicator; input is not
		// read again until this request settles, so sends cannot overlap
		fmt.Printf("you: %s\n", line)
		fmt.Println("assistant: ...")

		resp, err := c.Chat(line, conversationID)
		if err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				fmt.Println("Session expired, please /login again.")
				continue
			}
			fmt.Printf("[error] %v\n", err)
			continue
		}

		conversationID = resp.ConversationID
		fmt.Printf("assistant: %s\n", resp.Message)
	}
}

func runCommand(c *client.Client, line string, conversationID *uint) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/register":
		username := prompt("username: ")
		email := prompt("email: ")
		password := prompt("password: ")
		if _, err := c.Register(username, email, password); err != nil {
			fmt.Printf("[error] %v\n", err)
			return
		}
		fmt.Println("Registered. Use /login to sign in.")

	case "/login":
		username := prompt("username: ")
		password := prompt("password: ")
		if err := c.Login(username, password); err != nil {
			fmt.Printf("[error] %v\n", err)
			return
		}
		fmt.Printf("Logged in as %s\n", c.Session().Username)

	case "/logout":
		c.Session().Clear()
		*conversationID = 0
		fmt.Println("Logged out.")

	case "/list":
		summaries, err := c.ListConversations()
		if err != nil {
			fmt.Printf("[error] %v\n", err)
			return
		}
		if len(summaries) == 0 {
			fmt.Println("No conversations yet.")
			return
		}
		for _, s := range summaries {
			fmt.Printf("%4d  %s  (%s)\n", s.ID, s.Title, s.UpdatedAt.Format("2006-01-02 15:04"))
		}

	case "/open":
		if len(fields) < 2 {
			fmt.Println("Usage: /open <id>")
			return
		}
		id, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			fmt.Println("Conversation id must be a number.")
			return
		}
		conversation, err := c.GetConversation(uint(id))
		if err != nil {
			fmt.Printf("[error] %v\n", err)
			return
		}
		*conversationID = conversation.ID
		fmt.Printf("-- %s --\n", conversation.Title)
		for _, m := range conversation.Messages {
			fmt.Printf("%s: %s\n", m.Role, m.Content)
		}

	case "/new":
		conversation, err := c.CreateConversation()
		if err != nil {
			fmt.Printf("[error] %v\n", err)
			return
		}
		*conversationID = conversation.ID
		fmt.Printf("Started conversation %d\n", conversation.ID)

	default:
		fmt.Printf("Unknown command %s\n", fields[0])
	}
}

func prompt(label string) string {
	fmt.Print(label)
	if !stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(stdin.Text())
}
