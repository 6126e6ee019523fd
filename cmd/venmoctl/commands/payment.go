package commands

import (
	"errors"
	"log/slog"

	"venmoctl/lib/scrapers/venmo"
	"venmoctl/lib/serviceutil"

	"github.com/spf13/cobra"
)

type paymentArgs struct {
	amountCents   uint
	note          string
	target        string
	fundingSource string
}

func registerPaymentFlags(cmd *cobra.Command) *paymentArgs {
	args := &paymentArgs{}
	cmd.Flags().UintVar(&args.amountCents, "amount-cents", 0, "Amount in cents.")
	cmd.Flags().StringVar(&args.note, "note", "", "Note shown on the transaction.")
	cmd.Flags().StringVar(&args.target, "to", "", "Handle or display name of the other party, resolved via search.")
	cmd.Flags().StringVar(&args.fundingSource, "funding-source", "", "Funding instrument id, server default when empty.")
	cmd.MarkFlagRequired("amount-cents")
	cmd.MarkFlagRequired("note")
	cmd.MarkFlagRequired("to")
	return args
}

func runPayment(cmd *cobra.Command, kind venmo.PaymentKind, args *paymentArgs) {
	ctx := cmd.Context()
	client := setupClient(ctx)
	requireProfile(ctx, client)

	targetId, err := client.SearchUser(ctx, args.target)
	if errors.Is(err, venmo.ErrNoMatch) {
		serviceutil.Fatal("no user matched the target", err)
	}
	if err != nil {
		serviceutil.Fatal("failed to resolve target user", err)
	}
	slog.Info("resolved target", "query", args.target, "id", targetId)

	result, err := client.SubmitPayment(ctx, venmo.PaymentParams{
		AmountCents:     args.amountCents,
		Note:            args.note,
		TargetUserId:    targetId,
		Kind:            kind,
		FundingSourceId: args.fundingSource,
	})
	if err != nil {
		serviceutil.Fatal("failed to submit payment", err)
	}
	slog.Info("payment submitted", "status", result.Status, "balance", result.Balance)
}

var payArgs *paymentArgs
var requestArgs *paymentArgs

func init() {
	payArgs = registerPaymentFlags(payCmd)
	requestArgs = registerPaymentFlags(requestCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(requestCmd)
}

var payCmd = &cobra.Command{
	Use:   "pay --amount-cents <n> --note <note> --to <user>",
	Short: "Sends money. Runs the eligibility check before submitting.",
	Run: func(cmd *cobra.Command, args []string) {
		runPayment(cmd, venmo.PaymentKindPay, payArgs)
	},
}

var requestCmd = &cobra.Command{
	Use:   "request --amount-cents <n> --note <note> --to <user>",
	Short: "Requests money from another user.",
	Run: func(cmd *cobra.Command, args []string) {
		runPayment(cmd, venmo.PaymentKindRequest, requestArgs)
	},
}
