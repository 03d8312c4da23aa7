package mailsmodels

import (
	"fmt"
	"worknest-backend/utils"
)

func InterviewScheduled(email string, date string, employerName string, jobTitle string) {
	subject := "Subject: Interview scheduled on WorkNest \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	body := fmt.Sprintf(`
	<div style="background-color: #1B4F72; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%; min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Interview scheduled</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">%s has scheduled an interview with you for the position <strong>%s</strong>.</td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">
						<p style="font-weight: bold; color: #1B4F72; text-align:center;">%s</p>
					</td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">Please be available a few minutes early. Good luck!</td>
				</tr>
			</tbody>
		</table>
	</div>
`, employerName, jobTitle, date)

	message := []byte(subject + mime + body)

	utils.SendMail(email, message)
}
