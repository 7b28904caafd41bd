package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/thiagoromendes/gobarber-scheduling/internal/apiclient"
	"github.com/thiagoromendes/gobarber-scheduling/internal/config"
	"github.com/thiagoromendes/gobarber-scheduling/internal/scheduling"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	providerFlag := flag.String("provider", "", "provider id to start the session with (required)")
	dateFlag := flag.String("date", "", "appointment day as YYYY-MM-DD (default: today)")
	hourFlag := flag.Int("hour", scheduling.HourUnset, "hour to book; omit to only list availability")
	flag.Parse()

	if *providerFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: book -provider <id> [-date YYYY-MM-DD] [-hour N]")
		os.Exit(2)
	}

	cfg, err := config.LoadSession()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	user := scheduling.User{
		Name:      getEnv("BOOK_USER_NAME", "dev user"),
		AvatarURL: os.Getenv("BOOK_USER_AVATAR"),
	}

	client := apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout)

	updates := make(chan scheduling.State, 64)
	ctrl := scheduling.NewController(client, consoleNavigator{}, scheduling.Options{
		AutoCloseDatePicker: cfg.DatePickerAutoClose,
		SubmitTimeout:       cfg.SubmitTimeout,
		OnChange: func(st scheduling.State) {
			select {
			case updates <- st:
			default:
			}
		},
	})
	defer ctrl.Close()

	fmt.Printf("booking as %s\n\n", user.Name)

	ctrl.Start(*providerFlag)

	if *dateFlag != "" {
		date, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("invalid -date %q: %v", *dateFlag, err)
		}
		ctrl.SelectDate(date.UTC())
	}

	st, err := waitReady(ctrl, updates, 30*time.Second)
	if err != nil {
		log.Fatalf("session did not become ready: %v", err)
	}

	printSession(st)

	if *hourFlag == scheduling.HourUnset {
		return
	}

	if err := ctrl.SelectHour(*hourFlag); err != nil {
		log.Fatalf("select hour %d: %v", *hourFlag, err)
	}
	if err := ctrl.Submit(); err != nil {
		log.Fatalf("submit: %v", err)
	}
}

// waitReady blocks until the provider list has arrived and the availability
// on display matches the current selection.
func waitReady(ctrl *scheduling.Controller, updates <-chan scheduling.State, timeout time.Duration) (scheduling.State, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		st := ctrl.Snapshot()
		if st.Phase == scheduling.PhaseReady && (len(st.Availability) > 0 || st.AvailabilityErr != nil) {
			return st, nil
		}

		select {
		case <-updates:
		case <-deadline.C:
			return scheduling.State{}, fmt.Errorf("timed out after %s", timeout)
		}
	}
}

func printSession(st scheduling.State) {
	if st.ProvidersErr != nil {
		fmt.Printf("providers unavailable: %v\n", st.ProvidersErr)
	} else {
		fmt.Println("providers:")
		for _, p := range st.Providers {
			marker := "  "
			if p.ID == st.SelectedProviderID {
				marker = "* "
			}
			fmt.Printf("  %s%s  %s\n", marker, p.ID, p.Name)
		}
	}

	fmt.Printf("\navailability for %s:\n", st.SelectedDate.Format("2006-01-02"))
	if st.AvailabilityErr != nil {
		fmt.Printf("  unavailable: %v\n", st.AvailabilityErr)
		return
	}

	printSlots("morning", st.Morning)
	printSlots("afternoon", st.Afternoon)
	fmt.Println()
}

func printSlots(label string, slots []scheduling.Slot) {
	fmt.Printf("  %s:\n", label)
	if len(slots) == 0 {
		fmt.Println("    (none)")
		return
	}
	for _, s := range slots {
		state := "free"
		if !s.Available {
			state = "taken"
		}
		fmt.Printf("    %s  %s\n", s.HourFormatted, state)
	}
}

// consoleNavigator is the navigation exit of a terminal session.
type consoleNavigator struct{}

func (consoleNavigator) GoBack() {
	fmt.Println("session cancelled")
}

func (consoleNavigator) CompleteAppointment(date time.Time) {
	fmt.Printf("appointment created for %s\n", date.Format("Monday, 02 Jan 2006 at 15:04"))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
