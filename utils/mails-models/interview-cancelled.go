package mailsmodels

import (
	"fmt"
	"worknest-backend/utils"
)

func InterviewCancelled(email string, date string, employerName string, jobTitle string) {
	subject := "Subject: Interview cancelled on WorkNest \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	body := fmt.Sprintf(`
	<div style="background-color: #922B21; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%; min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Interview cancelled</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">%s has cancelled the interview for the position <strong>%s</strong> scheduled on %s.</td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">You can contact the employer through the chat for further steps.</td>
				</tr>
			</tbody>
		</table>
	</div>
`, employerName, jobTitle, date)

	message := []byte(subject + mime + body)

	utils.SendMail(email, message)
}
