// Package ui is the terminal front end of the storefront: book list with
// search, cart, checkout form, and feedback form. All network work runs in
// tea commands; results come back as messages on the update loop.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/bookstore-storefront/internal/backend"
	"github.com/example/bookstore-storefront/internal/cart"
	"github.com/example/bookstore-storefront/internal/catalog"
	"github.com/example/bookstore-storefront/internal/checkout"
	"github.com/example/bookstore-storefront/internal/feedback"
	"github.com/example/bookstore-storefront/internal/payment"
)

type screen int

const (
	screenBooks screen = iota
	screenContent
	screenCart
	screenCheckout
	screenFeedback
)

// checkout form field order
const (
	fieldEmail = iota
	fieldPhone
	fieldAddress
	fieldCardNumber
	fieldCardExpMonth
	fieldCardExpYear
	fieldCardCVC
	fieldCount
)

type booksMsg struct {
	books []catalog.Book
	err   error
}

type contentMsg struct {
	book    catalog.Book
	content catalog.Content
	err     error
}

type checkoutMsg struct {
	receipt *checkout.Receipt
	err     error
}

type feedbackMsg struct {
	err error
}

// App is the bubbletea model for the whole storefront.
type App struct {
	client       *backend.Client
	cart         *cart.Cart
	orchestrator *checkout.Orchestrator
	feedback     *feedback.Service
	categoryID   int

	screen  screen
	books   []catalog.Book
	results []catalog.Book
	cursor  int
	busy    bool
	errMsg  string
	status  string

	search    textinput.Model
	searching bool

	detail        catalog.Book
	detailContent catalog.Content

	form      [fieldCount]textinput.Model
	formFocus int

	fbMessage textinput.Model
	fbEmail   textinput.Model
	fbFocus   int
}

func NewApp(client *backend.Client, c *cart.Cart, orch *checkout.Orchestrator, fb *feedback.Service, categoryID int) *App {
	app := &App{
		client:       client,
		cart:         c,
		orchestrator: orch,
		feedback:     fb,
		categoryID:   categoryID,
	}

	app.search = textinput.New()
	app.search.Placeholder = "title or author"

	placeholders := [fieldCount]string{
		"Email", "Phone Number", "Address",
		"4242 4242 4242 4242", "MM", "YY", "CVC",
	}
	for i := range app.form {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		app.form[i] = in
	}
	app.form[fieldEmail].Focus()

	app.fbMessage = textinput.New()
	app.fbMessage.Placeholder = "Give Your Feedback.."
	app.fbEmail = textinput.New()
	app.fbEmail.Placeholder = "Email"
	app.fbMessage.Focus()

	return app
}

func (a *App) Init() tea.Cmd {
	a.busy = true
	return a.fetchBooks()
}

func (a *App) fetchBooks() tea.Cmd {
	return func() tea.Msg {
		books, err := a.client.ListBooks(context.Background(), a.categoryID)
		return booksMsg{books: books, err: err}
	}
}

func (a *App) fetchContent(b catalog.Book) tea.Cmd {
	return func() tea.Msg {
		content, err := a.client.BookContent(context.Background(), b.BookID)
		return contentMsg{book: b, content: content, err: err}
	}
}

func (a *App) submitOrder(contact checkout.Contact, card payment.Card) tea.Cmd {
	return func() tea.Msg {
		receipt, err := a.orchestrator.SubmitOrder(context.Background(), contact, card)
		return checkoutMsg{receipt: receipt, err: err}
	}
}

func (a *App) submitFeedback(message, email string) tea.Cmd {
	return func() tea.Msg {
		return feedbackMsg{err: a.feedback.Submit(context.Background(), message, email)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case booksMsg:
		a.busy = false
		if msg.err != nil {
			a.errMsg = "Error fetching books: " + msg.err.Error()
			return a, nil
		}
		a.books = msg.books
		a.errMsg = ""
		return a, nil

	case contentMsg:
		a.busy = false
		if msg.err != nil {
			a.errMsg = "Error fetching book details: " + msg.err.Error()
			return a, nil
		}
		a.detail = msg.book
		a.detailContent = msg.content
		a.screen = screenContent
		a.errMsg = ""
		return a, nil

	case checkoutMsg:
		a.busy = false
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			return a, nil
		}
		a.status = fmt.Sprintf("Order paid successfully! (order %s)", msg.receipt.OrderID)
		a.errMsg = ""
		a.screen = screenBooks
		a.cursor = 0
		return a, nil

	case feedbackMsg:
		a.busy = false
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			return a, nil
		}
		a.status = "Feedback submitted successfully!"
		a.errMsg = ""
		a.fbMessage.SetValue("")
		a.fbEmail.SetValue("")
		a.screen = screenBooks
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.screen {
	case screenBooks:
		return a.updateBooks(msg)
	case screenContent:
		if msg.String() == "esc" || msg.String() == "q" {
			a.screen = screenBooks
		}
		return a, nil
	case screenCart:
		return a.updateCart(msg)
	case screenCheckout:
		return a.updateCheckout(msg)
	case screenFeedback:
		return a.updateFeedback(msg)
	}
	return a, nil
}

func (a *App) visibleBooks() []catalog.Book {
	if a.searching && strings.TrimSpace(a.search.Value()) != "" {
		return a.results
	}
	return a.books
}

func (a *App) updateBooks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		switch msg.String() {
		case "esc":
			a.searching = false
			a.search.SetValue("")
			a.results = nil
			a.cursor = 0
			return a, nil
		case "enter":
			a.searching = false
			return a, nil
		default:
			var cmd tea.Cmd
			a.search, cmd = a.search.Update(msg)
			a.results = catalog.Filter(a.books, a.search.Value())
			a.cursor = 0
			return a, cmd
		}
	}

	books := a.visibleBooks()
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(books)-1 {
			a.cursor++
		}
	case "/":
		a.searching = true
		a.search.Focus()
		return a, textinput.Blink
	case "enter", "a":
		if a.cursor < len(books) {
			b := books[a.cursor]
			if a.cart.Add(b) {
				a.status = fmt.Sprintf("%q added to cart", b.Title)
			}
		}
	case "v":
		if a.cursor < len(books) {
			a.busy = true
			return a, a.fetchContent(books[a.cursor])
		}
	case "c":
		a.screen = screenCart
		a.cursor = 0
	case "f":
		a.screen = screenFeedback
		a.fbFocus = 0
		a.fbMessage.Focus()
		a.fbEmail.Blur()
		return a, textinput.Blink
	case "r":
		a.busy = true
		return a, a.fetchBooks()
	}
	return a, nil
}

func (a *App) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := a.cart.Items()
	switch msg.String() {
	case "esc", "q":
		a.screen = screenBooks
		a.cursor = 0
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(items)-1 {
			a.cursor++
		}
	case "x":
		if a.cursor < len(items) {
			a.cart.Remove(items[a.cursor].BookID)
			if a.cursor > 0 {
				a.cursor--
			}
		}
	case "p", "enter":
		if a.cart.Len() > 0 {
			a.screen = screenCheckout
			a.formFocus = fieldEmail
			for i := range a.form {
				a.form[i].Blur()
			}
			a.form[fieldEmail].Focus()
			return a, textinput.Blink
		}
	}
	return a, nil
}

func (a *App) updateCheckout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.screen = screenCart
		a.cursor = 0
		return a, nil
	case "tab", "shift+tab", "up", "down":
		if msg.String() == "shift+tab" || msg.String() == "up" {
			a.formFocus = (a.formFocus + fieldCount - 1) % fieldCount
		} else {
			a.formFocus = (a.formFocus + 1) % fieldCount
		}
		for i := range a.form {
			if i == a.formFocus {
				a.form[i].Focus()
			} else {
				a.form[i].Blur()
			}
		}
		return a, textinput.Blink
	case "enter":
		if a.busy {
			return a, nil
		}
		contact := checkout.Contact{
			Email:   a.form[fieldEmail].Value(),
			Phone:   a.form[fieldPhone].Value(),
			Address: a.form[fieldAddress].Value(),
		}
		card := payment.Card{
			Number:   a.form[fieldCardNumber].Value(),
			ExpMonth: a.form[fieldCardExpMonth].Value(),
			ExpYear:  a.form[fieldCardExpYear].Value(),
			CVC:      a.form[fieldCardCVC].Value(),
		}
		a.busy = true
		a.status = ""
		return a, a.submitOrder(contact, card)
	}

	var cmd tea.Cmd
	a.form[a.formFocus], cmd = a.form[a.formFocus].Update(msg)
	return a, cmd
}

func (a *App) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.screen = screenBooks
		return a, nil
	case "tab", "shift+tab":
		a.fbFocus = 1 - a.fbFocus
		if a.fbFocus == 0 {
			a.fbMessage.Focus()
			a.fbEmail.Blur()
		} else {
			a.fbEmail.Focus()
			a.fbMessage.Blur()
		}
		return a, textinput.Blink
	case "enter":
		if a.busy {
			return a, nil
		}
		a.busy = true
		a.status = ""
		return a, a.submitFeedback(a.fbMessage.Value(), a.fbEmail.Value())
	}

	var cmd tea.Cmd
	if a.fbFocus == 0 {
		a.fbMessage, cmd = a.fbMessage.Update(msg)
	} else {
		a.fbEmail, cmd = a.fbEmail.Update(msg)
	}
	return a, cmd
}

func (a *App) View() string {
	var b strings.Builder
	switch a.screen {
	case screenBooks:
		a.viewBooks(&b)
	case screenContent:
		a.viewContent(&b)
	case screenCart:
		a.viewCart(&b)
	case screenCheckout:
		a.viewCheckout(&b)
	case screenFeedback:
		a.viewFeedback(&b)
	}

	if a.busy {
		b.WriteString("\nWorking...\n")
	}
	if a.errMsg != "" {
		fmt.Fprintf(&b, "\n! %s\n", a.errMsg)
	}
	if a.status != "" {
		fmt.Fprintf(&b, "\n%s\n", a.status)
	}
	return b.String()
}

func (a *App) viewBooks(b *strings.Builder) {
	fmt.Fprintf(b, "Bookstore — category %d  (cart: %d items)\n\n", a.categoryID, a.cart.Len())
	if a.searching {
		fmt.Fprintf(b, "Search: %s\n\n", a.search.View())
	}

	books := a.visibleBooks()
	if len(books) == 0 {
		b.WriteString("  no books\n")
	}
	for i, book := range books {
		cursor := "  "
		if i == a.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s — %s  %s", cursor, book.Title, book.Author, checkout.FormatPrice(book.Price))
		if book.Disc > 0 {
			line += fmt.Sprintf("  (%.0f%% off: %s)", book.Disc, checkout.FormatPrice(book.DiscountedPrice()))
		}
		if a.cart.Contains(book.BookID) {
			line += "  [Added to Cart]"
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nenter: add to cart  v: details  /: search  c: cart  f: feedback  r: reload  q: quit\n")
}

func (a *App) viewContent(b *strings.Builder) {
	fmt.Fprintf(b, "%s — %s\n\nDescription\n%s\n", a.detail.Title, a.detail.Author, a.detailContent.Description)
	b.WriteString("\nesc: back\n")
}

func (a *App) viewCart(b *strings.Builder) {
	b.WriteString("Shopping Cart\n\n")
	items := a.cart.Items()
	if len(items) == 0 {
		b.WriteString("  cart is empty\n")
	}
	for i, it := range items {
		cursor := "  "
		if i == a.cursor {
			cursor = "> "
		}
		fmt.Fprintf(b, "%s%s  %s\n", cursor, it.Title, checkout.FormatPrice(it.Price))
	}
	fmt.Fprintf(b, "\nTotal Price: %s\n", checkout.FormatPrice(a.cart.Total()))
	b.WriteString("\nx: remove  p: pay  esc: back\n")
}

func (a *App) viewCheckout(b *strings.Builder) {
	b.WriteString("Order Details:\n")
	for _, title := range a.cart.Titles() {
		fmt.Fprintf(b, "  %s\n", title)
	}
	fmt.Fprintf(b, "Total Price: %s\n\n", checkout.FormatPrice(a.cart.Total()))

	labels := [fieldCount]string{"Email", "Phone", "Address", "Card", "Exp MM", "Exp YY", "CVC"}
	for i := range a.form {
		fmt.Fprintf(b, "%-8s %s\n", labels[i], a.form[i].View())
	}
	b.WriteString("\ntab: next field  enter: pay  esc: back\n")
}

func (a *App) viewFeedback(b *strings.Builder) {
	b.WriteString("Feedback\n\n")
	fmt.Fprintf(b, "Message  %s\n", a.fbMessage.View())
	fmt.Fprintf(b, "Email    %s\n", a.fbEmail.View())
	b.WriteString("\ntab: next field  enter: submit  esc: back\n")
}
