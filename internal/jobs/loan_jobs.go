package jobs

import (
	"context"
	"time"

	"biblioteca-backend/internal/logger"
)

// SendOverdueReminders emails every user holding a loan whose expected
// return date has passed. Failures on individual loans are logged and
// skipped so one bad address does not stop the batch.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		overdue, err := jr.loans.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue loans", "error", err)
			return
		}

		sent := 0
		for _, loan := range overdue {
			if loan.UsuarioEmail == "" {
				logger.Warn("Overdue loan has no user email", "loan_id", loan.ID)
				continue
			}

			dueDate := loan.FechaDevolucionEsperada.Format("02/01/2006")
			if err := jr.email.SendOverdueReminder(ctx, loan.UsuarioEmail, loan.UsuarioNombre, loan.LibroTitulo, dueDate); err != nil {
				logger.Error("Failed to send overdue reminder",
					"loan_id", loan.ID,
					"email", loan.UsuarioEmail,
					"error", err)
				continue
			}

			logger.Debug("Sent overdue reminder",
				"loan_id", loan.ID,
				"usuario_id", loan.UsuarioID,
				"libro_id", loan.LibroID,
				"fecha_devolucion_esperada", dueDate)
			sent++
		}

		logger.Info("Sent overdue reminders", "count", sent, "overdue", len(overdue))
	})
}
