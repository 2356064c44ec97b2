package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"library-lending/internal/domain"
	"library-lending/internal/router"
	"library-lending/internal/service"
	"library-lending/internal/session"
)

var errQuit = errors.New("quit")

type app struct {
	in        *bufio.Reader
	out       io.Writer
	notifier  *terminalNotifier
	session   *session.Context
	nav       *router.Router
	auth      *service.AuthService
	books     *service.BookService
	borrowing *service.BorrowingService
}

// run es el bucle principal: cada ruta del router es una pantalla.
func (a *app) run(ctx context.Context) error {
	if _, err := a.nav.Navigate(ctx, router.PathRoot); err != nil {
		return err
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		route := a.nav.Current()
		fmt.Fprintf(a.out, "\n===== %s =====\n", a.nav.Title())
		a.printWhoAmI()

		var err error
		switch route.Screen {
		case router.ScreenLogin:
			err = a.loginScreen(ctx)
		case router.ScreenRegister:
			err = a.registerScreen(ctx)
		case router.ScreenBooks:
			err = a.booksScreen(ctx)
		case router.ScreenHistory:
			err = a.historyScreen(ctx)
		default:
			err = fmt.Errorf("no screen for route %s", route.Path)
		}
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *app) printWhoAmI() {
	s := a.session.Get()
	if !s.HasToken() {
		return
	}
	line := "Signed in as " + s.DisplayName
	if claims, err := session.PeekClaims(s.Token); err == nil {
		if left := claims.ExpiresIn(time.Now()); left > 0 {
			line += fmt.Sprintf(" (token expires in %s)", left.Round(time.Minute))
		}
	}
	fmt.Fprintln(a.out, line)
}

func (a *app) loginScreen(ctx context.Context) error {
	fmt.Fprintln(a.out, "[1] Log in")
	fmt.Fprintln(a.out, "[2] Register")
	fmt.Fprintln(a.out, "[q] Quit")
	choice, err := a.prompt("Select: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(choice) {
	case "1":
		phone, err := a.prompt("Phone number: ")
		if err != nil {
			return err
		}
		password, err := a.prompt("Password: ")
		if err != nil {
			return err
		}
		if _, err := a.auth.Login(ctx, phone, password); err != nil {
			return nil
		}
		a.notifier.Success("login successful")
		return a.goTo(ctx, router.PathBooks)
	case "2":
		return a.goTo(ctx, router.PathRegister)
	case "q":
		return errQuit
	}
	return nil
}

func (a *app) registerScreen(ctx context.Context) error {
	fmt.Fprintln(a.out, "[1] Create account")
	fmt.Fprintln(a.out, "[b] Back to login")
	choice, err := a.prompt("Select: ")
	if err != nil {
		return err
	}
	if strings.ToLower(choice) == "b" {
		return a.goTo(ctx, router.PathLogin)
	}
	if choice != "1" {
		return nil
	}

	phone, err := a.prompt("Phone number (09xxxxxxxx): ")
	if err != nil {
		return err
	}
	name, err := a.prompt("User name: ")
	if err != nil {
		return err
	}
	password, err := a.prompt("Password (6+ chars): ")
	if err != nil {
		return err
	}
	if _, err := a.auth.Register(ctx, phone, name, password); err != nil {
		return nil
	}
	a.notifier.Success("registration successful")
	if a.session.Get().HasToken() {
		return a.goTo(ctx, router.PathBooks)
	}
	return a.goTo(ctx, router.PathLogin)
}

func (a *app) booksScreen(ctx context.Context) error {
	if inv, err := a.books.GetAvailableBooks(ctx); err == nil {
		a.printInventory(inv)
	}
	fmt.Fprintln(a.out, "[b] Borrow  [s] Search  [a] All copies  [d] Book detail  [c] Check copy")
	fmt.Fprintln(a.out, "[h] My books  [o] Log out  [q] Quit")
	choice, err := a.prompt("Select: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(choice) {
	case "b":
		id, err := a.promptID("Inventory id: ")
		if err != nil || id == 0 {
			return err
		}
		if rec, err := a.borrowing.BorrowBook(ctx, id); err == nil {
			a.notifier.Success(fmt.Sprintf("borrowed %s (record %d)", rec.BookName, rec.RecordID))
		}
	case "s":
		return a.search(ctx)
	case "a":
		if inv, err := a.books.GetAllBooks(ctx); err == nil {
			a.printInventory(inv)
		}
	case "d":
		isbn, err := a.prompt("ISBN: ")
		if err != nil {
			return err
		}
		if book, err := a.books.GetBookByID(ctx, isbn); err == nil {
			fmt.Fprintf(a.out, "%s by %s\n%s\n", book.Name, book.Author, book.Introduction)
		}
	case "c":
		id, err := a.promptID("Inventory id: ")
		if err != nil || id == 0 {
			return err
		}
		if av, err := a.borrowing.CheckAvailability(ctx, id); err == nil {
			fmt.Fprintf(a.out, "copy %d: %s (available: %t)\n", av.InventoryID, av.Status, av.IsAvailable)
		}
	case "h":
		return a.goTo(ctx, router.PathHistory)
	case "o":
		return a.logout(ctx)
	case "q":
		return errQuit
	}
	return nil
}

func (a *app) historyScreen(ctx context.Context) error {
	if stats, err := a.borrowing.GetBorrowingStats(ctx); err == nil {
		fmt.Fprintf(a.out, "Total %d  Active %d  Returned %d\n", stats.TotalBorrowed, stats.ActiveCount, stats.ReturnedCount)
	}
	if a.nav.Current().Path != router.PathHistory {
		return nil
	}
	if active, err := a.borrowing.GetActiveBorrowings(ctx); err == nil {
		fmt.Fprintln(a.out, "-- On loan --")
		a.printRecords(active)
	}
	fmt.Fprintln(a.out, "[r] Return  [f] Full history  [l] Library  [o] Log out  [q] Quit")
	choice, err := a.prompt("Select: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(choice) {
	case "r":
		id, err := a.promptID("Inventory id: ")
		if err != nil || id == 0 {
			return err
		}
		if rec, err := a.borrowing.ReturnBook(ctx, id); err == nil {
			a.notifier.Success(fmt.Sprintf("returned %s", rec.BookName))
		}
	case "f":
		if history, err := a.borrowing.GetBorrowingHistory(ctx); err == nil {
			a.printRecords(history)
		}
	case "l":
		return a.goTo(ctx, router.PathBooks)
	case "o":
		return a.logout(ctx)
	case "q":
		return errQuit
	}
	return nil
}

func (a *app) search(ctx context.Context) error {
	var params domain.SearchParams
	var err error
	if params.Keyword, err = a.prompt("Title keyword (optional): "); err != nil {
		return err
	}
	if params.Author, err = a.prompt("Author (optional): "); err != nil {
		return err
	}
	if params.ISBN, err = a.prompt("ISBN (optional): "); err != nil {
		return err
	}
	if inv, err := a.books.SearchBooks(ctx, params); err == nil {
		a.printInventory(inv)
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.auth.Logout(); err != nil {
		a.notifier.Error("logout failed: " + err.Error())
	}
	return a.goTo(ctx, router.PathLogin)
}

// goTo navega; un error de navegacion es un bug de la tabla de rutas.
func (a *app) goTo(ctx context.Context, path string) error {
	_, err := a.nav.Navigate(ctx, path)
	return err
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptID devuelve 0 (sin error) si la entrada no es un id valido.
func (a *app) promptID(label string) (int64, error) {
	raw, err := a.prompt(label)
	if err != nil {
		return 0, err
	}
	id, convErr := strconv.ParseInt(raw, 10, 64)
	if convErr != nil || id <= 0 {
		a.notifier.Warning("invalid id")
		return 0, nil
	}
	return id, nil
}

func (a *app) printInventory(items []domain.Inventory) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "(no books)")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tISBN\tTITLE\tAUTHOR\tSTATUS")
	for _, inv := range items {
		title, author := "", ""
		if inv.Book != nil {
			title, author = inv.Book.Name, inv.Book.Author
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", inv.InventoryID, inv.ISBN, title, author, inv.Status)
	}
	_ = tw.Flush()
}

func (a *app) printRecords(records []domain.BorrowingRecord) {
	if len(records) == 0 {
		fmt.Fprintln(a.out, "(none)")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORD\tCOPY\tTITLE\tBORROWED\tRETURNED")
	for _, r := range records {
		returned := "-"
		if r.ReturnTime != nil {
			returned = r.ReturnTime.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
			r.RecordID, r.InventoryID, r.BookName,
			r.BorrowingTime.Local().Format("2006-01-02 15:04"), returned)
	}
	_ = tw.Flush()
}
