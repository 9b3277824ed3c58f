package cli

import (
	"fmt"
	"strings"

	"github.com/imkarma/tasktrack/internal/store"
	"github.com/spf13/cobra"
)

var obsCmd = &cobra.Command{
	Use:   "obs",
	Short: "Attach observations to tickets and tasks",
}

var obsAddCmd = &cobra.Command{
	Use:   "add [ticket|task] [parent-id] [content]",
	Short: "Add an observation to a ticket or task",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runObsAdd,
}

var obsListCmd = &cobra.Command{
	Use:   "list [ticket|task] [parent-id]",
	Short: "List observations attached to a ticket or task",
	Args:  cobra.ExactArgs(2),
	RunE:  runObsList,
}

var obsEditCmd = &cobra.Command{
	Use:   "edit [id] [content]",
	Short: "Replace an observation's content",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runObsEdit,
}

var obsRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove an observation",
	Args:  cobra.ExactArgs(1),
	RunE:  runObsRm,
}

func init() {
	obsCmd.AddCommand(obsAddCmd)
	obsCmd.AddCommand(obsListCmd)
	obsCmd.AddCommand(obsEditCmd)
	obsCmd.AddCommand(obsRmCmd)
}

// resolveParent turns a kind word plus id prefix into a validated
// parent reference.
func resolveParent(s *store.Store, kindArg, idArg string) (store.ParentKind, string, error) {
	switch kindArg {
	case "ticket":
		t, err := findTicket(s, idArg)
		if err != nil {
			return "", "", err
		}
		return store.ParentTicket, t.ID, nil
	case "task":
		t, err := findTask(s, idArg)
		if err != nil {
			return "", "", err
		}
		return store.ParentTask, t.ID, nil
	}
	return "", "", fmt.Errorf("unknown parent kind %q (want ticket or task)", kindArg)
}

func runObsAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	kind, parentID, err := resolveParent(e.store, args[0], args[1])
	if err != nil {
		return err
	}

	o, err := e.store.CreateObservation(store.NewObservation{
		ParentKind: kind,
		ParentID:   parentID,
		Content:    strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added observation %s%s%s to %s %s\n",
		colorCyan, shortID(o.ID), colorReset, kind, shortID(parentID))
	return nil
}

func runObsList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	kind, parentID, err := resolveParent(e.store, args[0], args[1])
	if err != nil {
		return err
	}

	obs := e.store.ObservationsFor(kind, parentID)
	if len(obs) == 0 {
		fmt.Printf("%sNo observations on %s %s.%s\n", colorDim, kind, shortID(parentID), colorReset)
		return nil
	}
	for _, o := range obs {
		fmt.Printf("%s%s%s %s%s%s  %s\n",
			colorYellow, shortID(o.ID), colorReset,
			colorDim, o.CreatedAt.Format("2006-01-02 15:04"), colorReset,
			o.Content)
	}
	return nil
}

func runObsEdit(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	o, err := findObservation(e.store, args[0])
	if err != nil {
		return err
	}
	if err := e.store.UpdateObservation(o.ID, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Printf("Updated observation %s\n", shortID(o.ID))
	return nil
}

func runObsRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	o, err := findObservation(e.store, args[0])
	if err != nil {
		return err
	}
	if err := e.store.DeleteObservation(o.ID); err != nil {
		return err
	}
	fmt.Printf("Removed observation %s\n", shortID(o.ID))
	return nil
}
